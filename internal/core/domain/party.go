package domain

// Party is the minimal view of a voucher counterparty (customer or
// supplier). Full party management lives outside the ledger core; the
// workflow only needs referential lookups and display names.
type Party struct {
	PartyID   string    `json:"partyID"`
	PartyType PartyType `json:"partyType"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AuditFields
}
