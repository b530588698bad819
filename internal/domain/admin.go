package domain

// AdminState is the back-office gate held in the session envelope
type AdminState struct {
	Key      string `json:"key"`
	LoggedIn bool   `json:"loggedIn"`
}

// DashboardStats summarizes the catalog and order ledger for the back office
type DashboardStats struct {
	Inventory     int     `json:"inventory"`
	TotalOrders   int     `json:"totalOrders"`
	LowStock      int     `json:"lowStock"`
	Revenue       float64 `json:"revenue"`
	PendingOrders int     `json:"pendingOrders"`
}
