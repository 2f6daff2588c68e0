package catalog

// CatalogSchemaPath is the path (relative to project root) for the card catalog schema.
const CatalogSchemaPath = "configs/schemas/card_catalog.schema.json"
