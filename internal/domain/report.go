package domain

// OwnerReport is one row of the back-office report.
type OwnerReport struct {
	OwnerKey  string `json:"ownerKey"`
	Documents int64  `json:"documents"`
	Published int64  `json:"published"`
	Apps      int64  `json:"apps"`
	Groups    int64  `json:"groups"`
}
