package domain

const (
	RequesterKeyCtxKey     = "hf-requesterKey"
	RequesterIsAdminCtxKey = "hf-requesterIsAdmin"
)
