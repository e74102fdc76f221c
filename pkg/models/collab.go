package models

// CollaborationRequest is the record handed to the collaboration datastore.
// Ownership transfers to the datastore on append; the storefront never reads
// it back. The datastore's on-create trigger fans out the notification
// emails.
type CollaborationRequest struct {
	ID               string `json:"id"`
	RequesterName    string `json:"yourName"`
	RequesterEmail   string `json:"yourEmail"`
	TargetArtistName string `json:"rapperName"`
	Message          string `json:"message"`
	Phone            string `json:"phone,omitempty"`
	SubmittedAt      string `json:"timestamp"` // ISO-8601
	Status           string `json:"status"`    // always "pending" at submission
}
