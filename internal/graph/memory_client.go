package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory implementation of the Client interface used for
// unit testing source and sink logic without a running graph database.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readResults  [][]Row
	readHandler  func(ExecutedQuery) ([]Row, error)
	writeResult  WriteSummary
	writeErr     func(ExecutedQuery) error
	err          error
	connectivity error
	dials        int
	closed       int
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates the in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return the provided error for subsequent calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// WithReadHandler answers every Read with fn, taking precedence over pushed results.
func (m *MemoryClient) WithReadHandler(fn func(ExecutedQuery) ([]Row, error)) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readHandler = fn
	return m
}

// WithWriteSummary sets the summary returned by every successful Write.
func (m *MemoryClient) WithWriteSummary(summary WriteSummary) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResult = summary
	return m
}

// WithWriteError lets fn fail individual writes.
func (m *MemoryClient) WithWriteError(fn func(ExecutedQuery) error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = fn
	return m
}

// PushReadResult appends rows that will be returned on the next Read call.
func (m *MemoryClient) PushReadResult(rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, rows)
}

func (m *MemoryClient) Read(_ context.Context, cypher string, params map[string]any, fn RowFunc) error {
	rows, err := m.nextRead(ExecutedQuery{Query: cypher, Params: cloneMap(params)})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryClient) nextRead(q ExecutedQuery) ([]Row, error) {
	m.mu.Lock()
	if m.err != nil {
		defer m.mu.Unlock()
		return nil, m.err
	}
	m.readCalls = append(m.readCalls, q)
	handler := m.readHandler
	if handler == nil {
		defer m.mu.Unlock()
		if len(m.readResults) == 0 {
			return nil, nil
		}
		rows := m.readResults[0]
		m.readResults = m.readResults[1:]
		return rows, nil
	}
	m.mu.Unlock()
	return handler(q)
}

func (m *MemoryClient) Write(_ context.Context, cypher string, params map[string]any) (WriteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return WriteSummary{}, m.err
	}

	q := ExecutedQuery{Query: cypher, Params: cloneMap(params)}
	m.writeCalls = append(m.writeCalls, q)
	if m.writeErr != nil {
		if err := m.writeErr(q); err != nil {
			return WriteSummary{}, err
		}
	}
	return m.writeResult, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Dialer returns a Dialer that hands out this client and counts the dials.
func (m *MemoryClient) Dialer() Dialer {
	return func(context.Context, Options) (Client, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.dials++
		return m, nil
	}
}

// Dials reports how many times the Dialer was used.
func (m *MemoryClient) Dials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dials
}

// Closed reports how many times Close was called.
func (m *MemoryClient) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
