package extraction

const visionPrompt = `Extract all menu items from this image. For each item, provide its name, description (if available), and price (if available).
If a price is found, also try to identify its currency symbol.
Return the data as a JSON array of objects, where each object has 'name', 'description', 'price', and 'currency' fields.
Example format:
[
    {"name": "Spaghetti Carbonara", "description": "Classic Italian pasta with eggs, cheese, pancetta, and black pepper.", "price": 15.50, "currency": "€"},
    {"name": "Margherita Pizza", "description": "Tomato, mozzarella, basil.", "price": 12.00, "currency": "€"}
]
If a description or price is not found, set it to null. Respond with the JSON array only, no surrounding prose.`

const textPrompt = `Extract all menu items from the following text.
For each item, provide its name, description (if available), and price (if available).
If a price is found, also try to identify its currency symbol.
Return the data as a JSON array of objects, where each object has 'name', 'description', 'price', and 'currency' fields.
Example format:
[
    {"name": "Spaghetti Carbonara", "description": "Classic Italian pasta with eggs, cheese, pancetta, and black pepper.", "price": 15.50, "currency": "€"},
    {"name": "Margherita Pizza", "description": "Tomato, mozzarella, basil.", "price": 12.00, "currency": "€"}
]
If a description or price is not found, set it to null. Respond with the JSON array only, no surrounding prose.`
