package api

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// OpenAPIDoc returns the OpenAPI 3 description of the JSON API.
var OpenAPIDoc = sync.OnceValue(buildOpenAPI)

// ServeOpenAPI writes the OpenAPI document as JSON.
func ServeOpenAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OpenAPIDoc())
}

func buildOpenAPI() *openapi3.T {
	str := openapi3.NewStringSchema
	num := openapi3.NewFloat64Schema
	integer := openapi3.NewInt64Schema

	schemas := openapi3.Schemas{}
	define := func(name string, s *openapi3.Schema) *openapi3.SchemaRef {
		schemas[name] = openapi3.NewSchemaRef("", s)
		return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
	}

	errorRef := define("ErrorResponse", required(openapi3.NewObjectSchema().
		WithProperty("error", str()).
		WithProperty("code", str()), "error"))

	queryReq := define("QueryRequest", required(openapi3.NewObjectSchema().
		WithProperty("query", minLength(str(), 1)), "query"))
	queryRes := define("QueryResult", required(openapi3.NewObjectSchema().
		WithProperty("columns", openapi3.NewArraySchema().WithItems(str())).
		WithProperty("rows", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema())), "columns", "rows"))

	chatReq := define("ChatRequest", required(openapi3.NewObjectSchema().
		WithProperty("message", str()), "message"))
	chatRes := define("ChatResponse", required(openapi3.NewObjectSchema().
		WithProperty("reply", str()), "reply"))

	redeployReq := define("RedeployRequest", openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("failure_type", str()))
	redeployRes := define("RedeployResult", required(openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("message", str()).
		WithProperty("target", str()), "success", "message", "target"))

	health := openapi3.NewObjectSchema().
		WithProperty("pipelines_ok", integer()).
		WithProperty("pipelines_fail", integer()).
		WithProperty("jobs_ok", integer()).
		WithProperty("jobs_fail", integer())
	incident := openapi3.NewObjectSchema().
		WithProperty("id", str()).
		WithProperty("pipeline", str()).
		WithProperty("status", str()).
		WithProperty("failed", openapi3.NewBoolSchema()).
		WithProperty("message", str()).
		WithProperty("timestamp", str()).
		WithProperty("raw", openapi3.NewObjectSchema())
	overviewRes := define("Overview", openapi3.NewObjectSchema().
		WithProperty("health", health).
		WithProperty("health_error", str()).
		WithProperty("incidents", openapi3.NewArraySchema().WithItems(incident)).
		WithProperty("incidents_error", str()))

	point := openapi3.NewObjectSchema().
		WithProperty("ts", str()).
		WithProperty("cpu_pct", num()).
		WithProperty("mem_pct", num())
	summary := openapi3.NewObjectSchema().
		WithProperty("count", integer()).
		WithProperty("avg_cpu", num()).
		WithProperty("max_cpu", num()).
		WithProperty("avg_mem", num()).
		WithProperty("max_mem", num()).
		WithProperty("spikes", integer())
	metricsRes := define("Metrics", openapi3.NewObjectSchema().
		WithProperty("points", openapi3.NewArraySchema().WithItems(point)).
		WithProperty("summary", summary))

	item := openapi3.NewObjectSchema().
		WithProperty("key", str()).
		WithProperty("id", str()).
		WithProperty("failure_type", str()).
		WithProperty("values", openapi3.NewObjectSchema())
	remediationRes := define("Remediation", openapi3.NewObjectSchema().
		WithProperty("columns", openapi3.NewArraySchema().WithItems(str())).
		WithProperty("items", openapi3.NewArraySchema().WithItems(item)))

	probe := openapi3.NewObjectSchema().
		WithProperty("checked_at", openapi3.NewDateTimeSchema()).
		WithProperty("ok", openapi3.NewBoolSchema()).
		WithProperty("error", str()).
		WithProperty("latency_ns", integer())
	healthRes := define("HealthResponse", required(openapi3.NewObjectSchema().
		WithProperty("status", enum(str(), "ok", "degraded")).
		WithProperty("warehouse_configured", openapi3.NewBoolSchema()).
		WithProperty("probe", probe), "status", "warehouse_configured"))

	resp := func(desc string, ref *openapi3.SchemaRef) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(ref)}
	}
	warehouseErrors := []openapi3.NewResponsesOption{
		openapi3.WithStatus(http.StatusUnprocessableEntity, resp("Statement failed on the warehouse", errorRef)),
		openapi3.WithStatus(http.StatusBadGateway, resp("Warehouse transport or protocol failure", errorRef)),
		openapi3.WithStatus(http.StatusServiceUnavailable, resp("Warehouse connection not configured", errorRef)),
		openapi3.WithStatus(http.StatusGatewayTimeout, resp("Statement did not finish in time", errorRef)),
	}
	op := func(id, summary, tag string, body *openapi3.SchemaRef, ok *openapi3.SchemaRef, extra ...openapi3.NewResponsesOption) *openapi3.Operation {
		opts := append([]openapi3.NewResponsesOption{openapi3.WithStatus(http.StatusOK, resp("OK", ok))}, extra...)
		o := &openapi3.Operation{
			OperationID: id,
			Summary:     summary,
			Tags:        []string{tag},
			Responses:   openapi3.NewResponses(opts...),
		}
		if body != nil {
			o.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(body)}
		}
		return o
	}
	badRequest := openapi3.WithStatus(http.StatusBadRequest, resp("Invalid request body", errorRef))

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "SRE Dashboard API",
			Description: "Runs SQL on a Databricks SQL warehouse and serves the SRE dashboard views.",
			Version:     APIVersion,
		},
		Tags: openapi3.Tags{
			{Name: "query", Description: "Ad-hoc SQL"},
			{Name: "chat", Description: "Keyword chat over the monitoring tables"},
			{Name: "dashboard", Description: "Dashboard views"},
			{Name: "remediation", Description: "Quick actions"},
			{Name: "system", Description: "Server status"},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/databricks/query", &openapi3.PathItem{
				Post: op("executeQuery", "Execute a SQL statement", "query", queryReq, queryRes, append(warehouseErrors, badRequest)...),
			}),
			openapi3.WithPath("/api/chat", &openapi3.PathItem{
				Post: op("chat", "Answer a chat message", "chat", chatReq, chatRes, append(warehouseErrors, badRequest)...),
			}),
			openapi3.WithPath("/api/redeploy", &openapi3.PathItem{
				Post: op("redeploy", "Trigger a redeploy quick action", "remediation", redeployReq, redeployRes),
			}),
			openapi3.WithPath("/api/dashboard/overview", &openapi3.PathItem{
				Get: op("dashboardOverview", "Health counters and incident feed", "dashboard", nil, overviewRes),
			}),
			openapi3.WithPath("/api/dashboard/metrics", &openapi3.PathItem{
				Get: op("dashboardMetrics", "CPU and memory series", "dashboard", nil, metricsRes, warehouseErrors...),
			}),
			openapi3.WithPath("/api/dashboard/remediation", &openapi3.PathItem{
				Get: op("dashboardRemediation", "Incident knowledge base", "dashboard", nil, remediationRes, warehouseErrors...),
			}),
			openapi3.WithPath("/api/health", &openapi3.PathItem{
				Get: op("health", "Server and warehouse status", "system", nil, healthRes),
			}),
		),
		Components: &openapi3.Components{Schemas: schemas},
	}
}

func required(s *openapi3.Schema, fields ...string) *openapi3.Schema {
	s.Required = fields
	return s
}

func minLength(s *openapi3.Schema, n uint64) *openapi3.Schema {
	s.MinLength = n
	return s
}

func enum(s *openapi3.Schema, values ...any) *openapi3.Schema {
	s.Enum = values
	return s
}
