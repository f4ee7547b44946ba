package models

// InventoryItem is a reusable line-item template. Name is a case-insensitive
// unique key; entries are only ever created or re-priced by an explicit
// save-to-inventory action.
type InventoryItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}

// Client is a remembered billing recipient, added automatically the first time
// a document for that name is saved and never updated automatically after.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}
