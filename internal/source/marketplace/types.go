package marketplace

// searchResponse from GET /buy/browse/v1/item_summary/search
type searchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type itemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           amount           `json:"price"`
	ShippingOptions []shippingOption `json:"shippingOptions"`
	Condition       string           `json:"condition"`
	Image           struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	ItemWebURL string `json:"itemWebUrl"`
	Seller     struct {
		Username           string `json:"username"`
		FeedbackPercentage string `json:"feedbackPercentage"`
		FeedbackScore      int    `json:"feedbackScore"`
	} `json:"seller"`
	BuyingOptions    []string `json:"buyingOptions"`
	ItemCreationDate string   `json:"itemCreationDate"`
	ItemEndDate      string   `json:"itemEndDate"`
}

type shippingOption struct {
	ShippingCostType string  `json:"shippingCostType"`
	ShippingCost     *amount `json:"shippingCost"`
}

// salesResponse from GET /buy/marketplace_insights/v1_beta/item_sales/search
type salesResponse struct {
	Total     int        `json:"total"`
	ItemSales []itemSale `json:"itemSales"`
}

type itemSale struct {
	ItemID        string `json:"itemId"`
	Title         string `json:"title"`
	LastSoldPrice amount `json:"lastSoldPrice"`
	LastSoldDate  string `json:"lastSoldDate"`
	Condition     string `json:"condition"`
	ItemWebURL    string `json:"itemWebUrl"`
}

// SearchOptions configures a listing search.
type SearchOptions struct {
	Query    string
	MaxPrice *float64
	Limit    int
}

// SalesOptions configures a completed-sales search.
type SalesOptions struct {
	Query      string
	WindowDays int
	Limit      int
}
