package domain

// Variable is a per-user named value substituted into published documents at
// read time. Editing one retroactively affects every published page that
// references its key; nothing is republished.
type Variable struct {
	UserKey     string  `json:"userKey"`
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}

// Redirect is an owner-created short code resolving to a target URL, the
// server side of printed QR codes on digital business cards.
type Redirect struct {
	ID        string `json:"id"`
	OwnerKey  string `json:"ownerKey"`
	Code      string `json:"code"`
	TargetURL string `json:"targetUrl"`
}
