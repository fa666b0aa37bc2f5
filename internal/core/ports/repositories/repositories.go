package repositories

// RepositoryProvider groups every repository facade behind one value so the
// service container can be wired from a single dependency.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalRepositoryFacade
	VoucherRepo VoucherRepositoryFacade
	LedgerRepo  LedgerRepositoryFacade
	PartyRepo   PartyRepositoryFacade
}
