package constants

const (
	ViewData      = "view_data"
	RunPrediction = "run_prediction"
	CreateListing = "create_listing"
	EditListing   = "edit_listing"
	PlaceOrder    = "place_order"
	SendInquiry   = "send_inquiry"
	CreateLand    = "create_land"
	EditLand      = "edit_land"
)
