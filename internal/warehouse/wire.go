package warehouse

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State is the lifecycle state of a statement on the warehouse.
type State string

// Statement states reported by the service.
const (
	StatePending   State = "PENDING"
	StateRunning   State = "RUNNING"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
	StateCanceled  State = "CANCELED"
	StateClosed    State = "CLOSED"
)

// Terminal reports whether the poller should stop. Only PENDING and RUNNING
// keep it asking; any other state, including one this client does not know,
// ends the loop.
func (s State) Terminal() bool {
	return s != StatePending && s != StateRunning
}

const statementsPath = "/api/2.0/sql/statements"

type submitRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Statement   string `json:"statement"`
	WaitTimeout string `json:"wait_timeout"`
}

type serviceError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type statementStatus struct {
	State State         `json:"state"`
	Error *serviceError `json:"error,omitempty"`
}

// statementResponse is the body of both the submit and the get-status calls.
type statementResponse struct {
	StatementID string           `json:"statement_id"`
	Status      *statementStatus `json:"status,omitempty"`
	Manifest    *Manifest        `json:"manifest,omitempty"`
	Result      *ResultData      `json:"result,omitempty"`
}

// state returns the reported state, PENDING when the service omitted it.
func (r *statementResponse) state() State {
	if r.Status == nil || r.Status.State == "" {
		return StatePending
	}
	return r.Status.State
}

// Column describes one result column.
type Column struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name,omitempty"`
	Position int    `json:"position"`
}

// Manifest is the result schema. The column list arrives either as a bare
// array of column descriptors or as an object wrapping a columns field,
// optionally under a "schema" envelope. UnmarshalJSON resolves the shape, so
// Columns is the only column view callers see.
type Manifest struct {
	Columns         []Column
	TotalRowCount   int64
	TotalChunkCount int
	Truncated       bool
}

type manifestEnvelope struct {
	Schema          json.RawMessage `json:"schema"`
	Columns         []Column        `json:"columns"`
	TotalRowCount   int64           `json:"total_row_count"`
	TotalChunkCount int             `json:"total_chunk_count"`
	Truncated       bool            `json:"truncated"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*m = Manifest{}
		return nil
	case data[0] == '[':
		cols, err := decodeSchema(data)
		if err != nil {
			return err
		}
		*m = Manifest{Columns: cols}
		return nil
	case data[0] == '{':
		var env manifestEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("decode manifest: %w", err)
		}
		out := Manifest{
			TotalRowCount:   env.TotalRowCount,
			TotalChunkCount: env.TotalChunkCount,
			Truncated:       env.Truncated,
		}
		if schema := bytes.TrimSpace(env.Schema); len(schema) > 0 && !bytes.Equal(schema, []byte("null")) {
			cols, err := decodeSchema(schema)
			if err != nil {
				return err
			}
			out.Columns = cols
		} else if env.Columns != nil {
			out.Columns = env.Columns
		}
		*m = out
		return nil
	default:
		return fmt.Errorf("decode manifest: unexpected JSON %.20q", data)
	}
}

// decodeSchema accepts a bare column array or an object with a columns field.
func decodeSchema(data []byte) ([]Column, error) {
	if data[0] == '[' {
		var cols []Column
		if err := json.Unmarshal(data, &cols); err != nil {
			return nil, fmt.Errorf("decode manifest schema: %w", err)
		}
		return cols, nil
	}
	if data[0] == '{' {
		var wrapped struct {
			Columns []Column `json:"columns"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode manifest schema: %w", err)
		}
		return wrapped.Columns, nil
	}
	return nil, fmt.Errorf("decode manifest schema: unexpected JSON %.20q", data)
}

// ColumnNames returns the ordered column names. A nil manifest has none.
func (m *Manifest) ColumnNames() []string {
	if m == nil {
		return []string{}
	}
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

// ResultData is an inline JSON_ARRAY result chunk.
type ResultData struct {
	DataArray             [][]any `json:"data_array"`
	RowCount              int64   `json:"row_count"`
	ChunkIndex            int     `json:"chunk_index"`
	NextChunkIndex        *int    `json:"next_chunk_index,omitempty"`
	NextChunkInternalLink string  `json:"next_chunk_internal_link,omitempty"`
}

// HasMoreChunks reports whether the service holds chunks beyond this one.
func (r *ResultData) HasMoreChunks() bool {
	return r != nil && (r.NextChunkIndex != nil || r.NextChunkInternalLink != "")
}
