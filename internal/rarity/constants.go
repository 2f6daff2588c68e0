package rarity

// TablesSchemaPath is the path (relative to project root) for the rarity tables schema.
const TablesSchemaPath = "configs/schemas/rarity_tables.schema.json"
