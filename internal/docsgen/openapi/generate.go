// Package openapi renders markdown reference pages from the API's OpenAPI
// document.
package openapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

type endpointDoc struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Params      []paramDoc
	RequestBody *requestBodyDoc
	Responses   []responseDoc
}

type paramDoc struct {
	Name        string
	In          string
	Required    bool
	Type        string
	Description string
}

type requestBodyDoc struct {
	Required bool
	Schema   string
}

type responseDoc struct {
	Code        string
	Description string
	Schema      string
}

// Generate writes the rendered pages under outDir, replacing its contents.
func Generate(doc *openapi3.T, outDir string) error {
	pages, err := Render(doc)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clean output dir: %w", err)
	}
	for _, name := range sortedKeys(pages) {
		if err := writeFile(filepath.Join(outDir, filepath.FromSlash(name)), pages[name]); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the markdown pages keyed by slash-separated relative path:
// index.md, one endpoints/<tag>.md per tag and one schemas/<name>.md per
// component schema.
func Render(doc *openapi3.T) (map[string]string, error) {
	if doc == nil || doc.Paths == nil {
		return nil, fmt.Errorf("openapi document has no paths")
	}

	tagDescriptions := map[string]string{}
	for _, tag := range doc.Tags {
		tagDescriptions[tag.Name] = strings.TrimSpace(tag.Description)
	}

	tagEndpoints := map[string][]endpointDoc{}
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			tags := op.Tags
			if len(tags) == 0 {
				tags = []string{"untagged"}
			}
			for _, tag := range tags {
				tagEndpoints[tag] = append(tagEndpoints[tag], buildEndpointDoc(path, method, item, op))
			}
		}
	}

	pages := map[string]string{}
	tags := sortedKeys(tagEndpoints)
	for _, tag := range tags {
		endpoints := tagEndpoints[tag]
		sortEndpoints(endpoints)
		pages["endpoints/"+fileSlug(tag)+".md"] = renderTagPage(tag, tagDescriptions[tag], endpoints)
	}

	var schemaNames []string
	if doc.Components != nil {
		schemaNames = sortedKeys(doc.Components.Schemas)
		for _, name := range schemaNames {
			pages["schemas/"+fileSlug(name)+".md"] = renderSchemaPage(name, doc.Components.Schemas[name])
		}
	}

	pages["index.md"] = renderIndex(doc, tags, tagDescriptions, tagEndpoints, schemaNames)
	return pages, nil
}

func buildEndpointDoc(path, method string, item *openapi3.PathItem, op *openapi3.Operation) endpointDoc {
	endpoint := endpointDoc{
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: strings.TrimSpace(op.OperationID),
		Summary:     strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
	}

	params := append(slices.Clone(item.Parameters), op.Parameters...)
	for _, p := range params {
		if p == nil || p.Value == nil {
			continue
		}
		endpoint.Params = append(endpoint.Params, paramDoc{
			Name:        p.Value.Name,
			In:          p.Value.In,
			Required:    p.Value.Required,
			Type:        schemaTypeFromRef(p.Value.Schema),
			Description: cleanInline(p.Value.Description),
		})
	}
	sort.Slice(endpoint.Params, func(i, j int) bool {
		if endpoint.Params[i].In != endpoint.Params[j].In {
			return endpoint.Params[i].In < endpoint.Params[j].In
		}
		return endpoint.Params[i].Name < endpoint.Params[j].Name
	})

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := &requestBodyDoc{Required: op.RequestBody.Value.Required}
		if mt := op.RequestBody.Value.Content.Get("application/json"); mt != nil {
			body.Schema = schemaTypeFromRef(mt.Schema)
		}
		endpoint.RequestBody = body
	}

	if op.Responses != nil {
		for code, ref := range op.Responses.Map() {
			rd := responseDoc{Code: code}
			if ref != nil && ref.Value != nil {
				if ref.Value.Description != nil {
					rd.Description = cleanInline(*ref.Value.Description)
				}
				if mt := ref.Value.Content.Get("application/json"); mt != nil {
					rd.Schema = schemaTypeFromRef(mt.Schema)
				}
			}
			endpoint.Responses = append(endpoint.Responses, rd)
		}
	}
	sortResponses(endpoint.Responses)

	return endpoint
}

func renderIndex(doc *openapi3.T, tags []string, tagDescriptions map[string]string, tagEndpoints map[string][]endpointDoc, schemaNames []string) string {
	var b strings.Builder
	b.WriteString(generatedHeader())
	title := "API Reference"
	if doc.Info != nil && doc.Info.Title != "" {
		title = doc.Info.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if doc.Info != nil {
		if doc.Info.Description != "" {
			b.WriteString(cleanInline(doc.Info.Description))
			b.WriteString("\n\n")
		}
		if doc.Info.Version != "" {
			fmt.Fprintf(&b, "Version `%s`.\n\n", doc.Info.Version)
		}
	}

	b.WriteString("## Endpoint Groups\n\n")
	b.WriteString("| Group | Description | Operations |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, tag := range tags {
		fmt.Fprintf(&b, "| [%s](./endpoints/%s.md) | %s | %d |\n",
			tag, fileSlug(tag), tableSafe(tagDescriptions[tag]), len(tagEndpoints[tag]))
	}

	if len(schemaNames) > 0 {
		b.WriteString("\n## Schemas\n\n")
		for _, name := range schemaNames {
			fmt.Fprintf(&b, "- [%s](./schemas/%s.md)\n", name, fileSlug(name))
		}
	}
	return b.String()
}

func renderTagPage(tag, description string, endpoints []endpointDoc) string {
	var b strings.Builder
	b.WriteString(generatedHeader())
	fmt.Fprintf(&b, "# %s\n\n", tag)
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}

	for _, endpoint := range endpoints {
		fmt.Fprintf(&b, "## `%s %s`\n\n", endpoint.Method, endpoint.Path)
		if endpoint.Summary != "" {
			b.WriteString(endpoint.Summary)
			b.WriteString("\n\n")
		}
		if endpoint.Description != "" {
			b.WriteString(endpoint.Description)
			b.WriteString("\n\n")
		}
		if endpoint.OperationID != "" {
			fmt.Fprintf(&b, "- Operation ID: `%s`\n\n", endpoint.OperationID)
		}

		if len(endpoint.Params) > 0 {
			b.WriteString("### Parameters\n\n")
			b.WriteString("| Name | In | Type | Required | Description |\n")
			b.WriteString("| --- | --- | --- | --- | --- |\n")
			for _, p := range endpoint.Params {
				fmt.Fprintf(&b, "| `%s` | %s | `%s` | `%t` | %s |\n", p.Name, p.In, p.Type, p.Required, tableSafe(p.Description))
			}
			b.WriteString("\n")
		}

		if endpoint.RequestBody != nil {
			b.WriteString("### Request Body\n\n")
			fmt.Fprintf(&b, "- Required: `%t`\n", endpoint.RequestBody.Required)
			if endpoint.RequestBody.Schema != "" {
				fmt.Fprintf(&b, "- Schema: %s\n", schemaLink(endpoint.RequestBody.Schema))
			}
			b.WriteString("\n")
		}

		if len(endpoint.Responses) > 0 {
			b.WriteString("### Responses\n\n")
			b.WriteString("| Code | Description | Schema |\n")
			b.WriteString("| --- | --- | --- |\n")
			for _, r := range endpoint.Responses {
				schema := "-"
				if r.Schema != "" {
					schema = schemaLink(r.Schema)
				}
				fmt.Fprintf(&b, "| `%s` | %s | %s |\n", r.Code, tableSafe(r.Description), schema)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderSchemaPage(name string, ref *openapi3.SchemaRef) string {
	var b strings.Builder
	b.WriteString(generatedHeader())
	fmt.Fprintf(&b, "# Schema: `%s`\n\n", name)

	if ref == nil || ref.Value == nil {
		b.WriteString("Schema body is empty.\n")
		return b.String()
	}
	schema := ref.Value
	if schema.Description != "" {
		b.WriteString(cleanInline(schema.Description))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "- Type: `%s`\n\n", schemaType(schema))

	if len(schema.Properties) > 0 {
		required := make(map[string]bool, len(schema.Required))
		for _, field := range schema.Required {
			required[field] = true
		}
		b.WriteString("## Properties\n\n")
		b.WriteString("| Name | Type | Required | Notes |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, prop := range sortedKeys(schema.Properties) {
			propRef := schema.Properties[prop]
			fmt.Fprintf(&b, "| `%s` | `%s` | `%t` | %s |\n", prop, schemaTypeFromRef(propRef), required[prop], tableSafe(propertyNotes(propRef)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// propertyNotes summarizes enum and length constraints plus the description.
func propertyNotes(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil {
		return ""
	}
	var notes []string
	if len(ref.Value.Enum) > 0 {
		values := make([]string, 0, len(ref.Value.Enum))
		for _, v := range ref.Value.Enum {
			values = append(values, fmt.Sprintf("`%v`", v))
		}
		notes = append(notes, "one of "+strings.Join(values, ", "))
	}
	if ref.Value.MinLength > 0 {
		notes = append(notes, fmt.Sprintf("min length %d", ref.Value.MinLength))
	}
	if d := cleanInline(ref.Value.Description); d != "" {
		notes = append(notes, d)
	}
	return strings.Join(notes, "; ")
}

func schemaLink(name string) string {
	if strings.HasPrefix(name, "array[") || !isComponentName(name) {
		return "`" + name + "`"
	}
	return fmt.Sprintf("[%s](../schemas/%s.md)", name, fileSlug(name))
}

// isComponentName reports whether name looks like a schema component rather
// than a primitive type.
func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func sortEndpoints(endpoints []endpointDoc) {
	methodOrder := map[string]int{
		http.MethodGet:    0,
		http.MethodPost:   1,
		http.MethodPut:    2,
		http.MethodPatch:  3,
		http.MethodDelete: 4,
	}
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return methodOrder[endpoints[i].Method] < methodOrder[endpoints[j].Method]
	})
}

func sortResponses(responses []responseDoc) {
	sort.Slice(responses, func(i, j int) bool {
		ci, cj := responses[i].Code, responses[j].Code
		if ci == "default" {
			return false
		}
		if cj == "default" {
			return true
		}
		return ci < cj
	})
}

func schemaTypeFromRef(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "unknown"
	}
	if ref.Ref != "" {
		parts := strings.Split(ref.Ref, "/")
		return parts[len(parts)-1]
	}
	return schemaType(ref.Value)
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil || len(*schema.Type) == 0 {
		return "object"
	}
	if schema.Type.Is(openapi3.TypeArray) {
		if schema.Items != nil {
			return "array[" + schemaTypeFromRef(schema.Items) + "]"
		}
		return "array"
	}
	return (*schema.Type)[0]
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileSlug(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	lower = strings.NewReplacer(" ", "-", "/", "-", "_", "-", ".", "-").Replace(lower)
	for strings.Contains(lower, "--") {
		lower = strings.ReplaceAll(lower, "--", "-")
	}
	return strings.Trim(lower, "-")
}

func generatedHeader() string {
	return "<!-- Code generated by cmd/docsgen. DO NOT EDIT. -->\n\n"
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory %q: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func cleanInline(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func tableSafe(value string) string {
	value = strings.ReplaceAll(cleanInline(value), "|", "\\|")
	if value == "" {
		return "-"
	}
	return value
}
