package observability

// Metric name prefixes
const (
	MetricPrefix = "coinbot"
)

// Metric names
const (
	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Wager metrics
	WagersResolvedTotal = MetricPrefix + ".wagers.resolved_total"

	// Account metrics
	AccountsCreatedTotal = MetricPrefix + ".accounts.created_total"

	// Store metrics
	StoreOperationsTotal   = MetricPrefix + ".store.operations_total"
	StoreOperationDuration = MetricPrefix + ".store.operation_duration"
	StoreErrorsTotal       = MetricPrefix + ".store.errors_total"
)

// Label keys
const (
	LabelType     = "type"
	LabelCategory = "category"
	LabelGame     = "game"
	LabelWon      = "won"
	LabelStore    = "store"
	LabelMethod   = "method"
)

// Exporter types
const (
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
	ExporterNone    = "none"
)
