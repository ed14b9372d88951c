package directory

// wireProduct mirrors the subset of directory product fields this
// application reads. Brands, categories and ingredients arrive as
// comma-separated strings; taxonomy tags carry a language prefix.
type wireProduct struct {
	ID              string   `json:"_id"`
	Code            string   `json:"code"`
	ProductName     string   `json:"product_name"`
	Brands          string   `json:"brands"`
	Categories      string   `json:"categories"`
	CategoriesTags  []string `json:"categories_tags"`
	LabelsTags      []string `json:"labels_tags"`
	ImageURL        string   `json:"image_url"`
	IngredientsText string   `json:"ingredients_text"`
	Quantity        string   `json:"quantity"`
}

// productEnvelope is the barcode lookup response. status 0 with a
// missing product is the directory's "no such barcode" answer.
type productEnvelope struct {
	Status        int          `json:"status"`
	StatusVerbose string       `json:"status_verbose"`
	Product       *wireProduct `json:"product"`
}

// searchEnvelope is the paginated search response
type searchEnvelope struct {
	Products []wireProduct `json:"products"`
	Count    int           `json:"count"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
