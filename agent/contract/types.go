package contract

type Intent string

const (
	IntentSetModel     Intent = "set_model"
	IntentDescribePart Intent = "describe_part"
	IntentAskPrice     Intent = "ask_price"
	IntentAskDiagram   Intent = "ask_diagram"
	IntentUnknown      Intent = "unknown"
)

// Table names expected from every data source.
const (
	TableParts  = "Parts"
	TableModels = "Models"
)

// Column names of the Parts table.
const (
	FieldModelNumber = "model_number"
	FieldDescription = "description"
	FieldPartNumber  = "part_number"
	FieldType        = "type"
	FieldYearSold    = "year_sold"
	FieldPrice       = "price"
)

type PartRecord struct {
	ModelNumber string  `json:"model_number"`
	Description string  `json:"description"`
	PartNumber  string  `json:"part_number"`
	Type        string  `json:"type"`
	YearSold    string  `json:"year_sold"`
	Price       float64 `json:"price"`
}

// Reply is the outcome of one dispatched utterance.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}
