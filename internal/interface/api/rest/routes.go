package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// farmers
	RouteFarmers          = RouteApiV1 + "/farmers"
	RouteFarmer           = RouteFarmers + "/:farmer_id"
	RouteFarmerActivate   = RouteFarmer + "/activate"
	RouteFarmerDeactivate = RouteFarmer + "/deactivate"

	// cpf
	RouteCPF           = RouteApiV1 + "/cpf/:cpf"
	RouteCPFFarmer     = RouteCPF + "/farmer"
	RouteCPFValidation = RouteCPF + "/validation"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
