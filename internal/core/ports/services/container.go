package services

// ServiceContainer bundles the application services for dependency injection.
type ServiceContainer struct {
	Account      ChartOfAccountsSvc
	Journal      JournalSvc
	Balance      BalanceSvc
	TrialBalance TrialBalanceSvc
}
