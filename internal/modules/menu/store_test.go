package menu

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewStore(db), mock
}

func TestSaveMenuCommitsEverythingTogether(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `credits`=credits - ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `menus`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `menu_items`")).
		WillReturnResult(sqlmock.NewResult(1, 2))
	// All images land in one batched insert, across items.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `item_images`")).
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `credits` FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(40))
	mock.ExpectCommit()

	menuID, remaining, err := store.SaveMenu(context.Background(), SaveInput{
		UserID: "user-1",
		Title:  "Pizza",
		Cost:   CostPerMenu,
		Items: []ProcessedItem{
			{ItemName: "Pizza", Images: []string{"https://img.test/1.jpg", "https://img.test/2.jpg"}},
			{ItemName: "Ramen", Images: []string{"https://img.test/3.jpg"}},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, menuID)
	assert.Equal(t, 40, remaining)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMenuRollsBackWhenDebitLoses(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `credits`=credits - ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := store.SaveMenu(context.Background(), SaveInput{
		UserID: "user-1",
		Cost:   CostPerMenu,
		Items:  []ProcessedItem{{ItemName: "Pizza"}},
	})

	require.ErrorIs(t, err, ErrInsufficientCredits)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMenuWithoutImagesSkipsImageInsert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `credits`=credits - ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `menus`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `menu_items`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `credits` FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(40))
	mock.ExpectCommit()

	_, _, err := store.SaveMenu(context.Background(), SaveInput{
		UserID: "user-1",
		Cost:   CostPerMenu,
		Items:  []ProcessedItem{{ItemName: UnknownItemName, Images: []string{}}},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDHidesForeignMenus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `menus`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status"}))

	_, err := store.GetByID(context.Background(), "user-2", "menu-1")

	require.ErrorIs(t, err, ErrMenuNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
