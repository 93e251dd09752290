package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/cache"
	"github.com/satishbabariya/gqlsql/internal/core/query/compiler"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/service"
	"github.com/satishbabariya/gqlsql/internal/service/servicetest"
)

type failingExecutor struct {
	next   domain.RowExecutor
	needle string
}

func (f failingExecutor) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if strings.Contains(query, f.needle) {
		return nil, domain.NewQueryError("execute", "", query, errors.New("backend down"))
	}
	return f.next.Execute(ctx, query)
}

func newFixture(t *testing.T, wrap func(domain.RowExecutor) domain.RowExecutor) *servicetest.Fixture {
	return servicetest.Open(t, wrap)
}

func responseJSON(t *testing.T, resp *service.Response) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func TestGraphQLService_CustomerOrders(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.GraphQL.Execute(context.Background(), service.Request{Query: `{
  customer(order: [{asc: id}]) {
    total
    edges {
      node {
        __typename
        name
        link_orders(order: [{asc: id}]) {
          total
          edges { node { id total } }
        }
      }
    }
  }
}`})
	require.Empty(t, resp.Errors)

	assert.JSONEq(t, `{"data":{"customer":{"total":3,"edges":[
  {"node":{"__typename":"customer","name":"Acme","link_orders":{"total":2,"edges":[
    {"node":{"id":10,"total":12.5}},
    {"node":{"id":11,"total":7.25}}]}}},
  {"node":{"__typename":"customer","name":"Globex","link_orders":{"total":0,"edges":[]}}},
  {"node":{"__typename":"customer","name":"Initech","link_orders":{"total":1,"edges":[
    {"node":{"id":12,"total":3}}]}}}
]}}}`, responseJSON(t, resp))
}

func TestGraphQLService_PagingFilteringAliases(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.GraphQL.Execute(context.Background(), service.Request{
		Query: `query Q($name: String) {
  newest: customer(first: 1, order: [{desc: id}]) {
    total
    pageInfo { hasNextPage hasPreviousPage }
    edges { cursor node { name } }
  }
  matched: customer(where: {contains: {name: $name}}) {
    edges { node { label: name } }
  }
  __typename
}`,
		OperationName: "Q",
		Variables:     map[string]interface{}{"name": "tech"},
	})
	require.Empty(t, resp.Errors)

	assert.JSONEq(t, `{"data":{
  "newest":{"total":3,"pageInfo":{"hasNextPage":true,"hasPreviousPage":false},
    "edges":[{"cursor":"`+graph.OffsetToCursor(0)+`","node":{"name":"Initech"}}]},
  "matched":{"edges":[{"node":{"label":"Initech"}}]},
  "__typename":"Objects"
}}`, responseJSON(t, resp))
}

func TestGraphQLService_ForwardLinkAndBlob(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.GraphQL.Execute(context.Background(), service.Request{Query: `{
  orders(where: {equals: {id: 10}}) {
    edges { node { note link_customer_id { name logo } } }
  }
}`})
	require.Empty(t, resp.Errors)

	encoded, err := service.BlobID{Table: "customer", Field: "logo", Key: map[string]interface{}{"id": int64(1)}}.Encode()
	require.NoError(t, err)
	link := "/blobs?id=" + url.QueryEscape(encoded)

	assert.JSONEq(t, `{"data":{"orders":{"edges":[
  {"node":{"note":"first","link_customer_id":{"name":"Acme","logo":"`+link+`"}}}
]}}}`, responseJSON(t, resp))

	id, err := service.DecodeBlobID(encoded)
	require.NoError(t, err)
	content, err := f.Queries.FetchBlob(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, content)
}

func TestGraphQLService_FieldErrorsAreIsolated(t *testing.T) {
	f := newFixture(t, func(next domain.RowExecutor) domain.RowExecutor {
		return failingExecutor{next: next, needle: "FROM orders"}
	})
	resp := f.GraphQL.Execute(context.Background(), service.Request{Query: `{
  customer { total }
  orders { total }
  __schema { queryType { name } }
}`})

	require.Len(t, resp.Errors, 2)
	assert.Contains(t, resp.Errors[0].Message, "introspection")
	assert.Contains(t, resp.Errors[1].Message, "backend down")
	assert.Equal(t, "orders", resp.Errors[1].Path.String())

	customer, ok := resp.Data.Get("customer")
	require.True(t, ok)
	assert.JSONEq(t, `{"total":3}`, mustJSON(t, customer))
	orders, ok := resp.Data.Get("orders")
	require.True(t, ok)
	assert.Nil(t, orders)
}

func TestGraphQLService_RequestErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  service.Request
	}{
		{"syntax", service.Request{Query: `{ customer {`}},
		{"unknown field", service.Request{Query: `{ nope }`}},
		{"ambiguous operation", service.Request{Query: `query A { __typename } query B { __typename }`}},
		{"unknown operation", service.Request{Query: `query A { __typename }`, OperationName: "B"}},
		{"missing variable", service.Request{Query: `query A($n: Int!) { customer(first: $n) { total } }`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.GraphQL.Execute(ctx, tt.req)
			assert.NotEmpty(t, resp.Errors)
			assert.Nil(t, resp.Data)
			assert.Contains(t, responseJSON(t, resp), `"data":null`)
		})
	}
}

func TestGraphQLService_Plan(t *testing.T) {
	f := newFixture(t, nil)
	plans, errs := f.GraphQL.Plan(context.Background(), service.Request{
		Query: `{ __typename c: customer { edges { node { name } } } }`,
	})
	require.Empty(t, errs)
	require.Len(t, plans, 1)
	assert.Equal(t, "c", plans[0].Key)
	require.NoError(t, plans[0].Err)
	assert.Equal(t, "SELECT\n  \"customer\".\"id\" AS \"customer_id\",\n  \"customer\".\"name\" AS \"customer_name\"\nFROM customer \"customer\"",
		plans[0].Query.SQL)
}

func TestGraphQLService_UnsetVariableAddsNoCondition(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	query := `query Q($n: String) { customer(where: {equals: {name: $n}}) { total } }`

	resp := f.GraphQL.Execute(ctx, service.Request{Query: query})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{"customer":{"total":3}}}`, responseJSON(t, resp))

	plans, errs := f.GraphQL.Plan(ctx, service.Request{Query: query})
	require.Empty(t, errs)
	require.Len(t, plans, 1)
	assert.NotContains(t, plans[0].Query.SQL, "WHERE")

	resp = f.GraphQL.Execute(ctx, service.Request{Query: query, Variables: map[string]interface{}{"n": nil}})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{"customer":{"total":0}}}`, responseJSON(t, resp))
}

func TestGraphQLService_DateFilters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		where string
		total int
	}{
		{`{equals: {created: "2024-01-02"}}`, 1},
		{`{greater: {created: "2024-03-04"}}`, 0},
		{`{greater: {created: "2024-03-03"}}`, 1},
		{`{less: {created: "2024-02-03"}}`, 1},
		{`{less: {created: "2024-02-03 00:00:01"}}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			resp := f.GraphQL.Execute(ctx, service.Request{Query: `{ orders(where: ` + tt.where + `) { total } }`})
			require.Empty(t, resp.Errors)
			assert.JSONEq(t, fmt.Sprintf(`{"data":{"orders":{"total":%d}}}`, tt.total), responseJSON(t, resp))
		})
	}
}

func TestGraphQLService_DocumentCache(t *testing.T) {
	f := newFixture(t, nil)
	documents := cache.NewDocumentCache(8, 0)
	gql := service.NewGraphQLService(f.Schema, f.Queries, nil, service.WithDocumentCache(documents))
	ctx := context.Background()

	query := `query ($prefix: String) { customer(where: {begins: {name: $prefix}}) { edges { node { name } } } }`
	for _, tt := range []struct {
		prefix string
		want   string
	}{
		{"Ac", "Acme"},
		{"In", "Initech"},
	} {
		resp := gql.Execute(ctx, service.Request{Query: query, Variables: map[string]interface{}{"prefix": tt.prefix}})
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"data":{"customer":{"edges":[{"node":{"name":"`+tt.want+`"}}]}}}`, responseJSON(t, resp))
	}

	resp := gql.Execute(ctx, service.Request{Query: `{ nope }`})
	assert.NotEmpty(t, resp.Errors)

	stats := documents.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Same(t, documents, gql.Documents())
}

func TestQueryService_RunAll(t *testing.T) {
	f := newFixture(t, func(next domain.RowExecutor) domain.RowExecutor {
		return failingExecutor{next: next, needle: "FROM orders"}
	})
	customer, err := f.Registry.TableByName("customer")
	require.NoError(t, err)
	orders, err := f.Registry.TableByName("orders")
	require.NoError(t, err)

	trees := []*domain.QueryTree{
		mustLookup(t, customer, 1),
		mustLookup(t, orders, 10),
		mustLookup(t, customer, 3),
		nil,
	}
	results := f.Queries.RunAll(context.Background(), trees)
	require.Len(t, results, 4)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "Acme", results[0].Objects[0]["name"])

	var qe *domain.QueryError
	require.True(t, errors.As(results[1].Err, &qe))
	assert.Equal(t, "orders", qe.Table)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "Initech", results[2].Objects[0]["name"])

	assert.Error(t, results[3].Err)
}

func TestQueryService_FetchBlobErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.Queries.FetchBlob(ctx, service.BlobID{Table: "nope", Field: "logo", Key: map[string]interface{}{"id": 1}})
	assert.True(t, errors.Is(err, service.ErrBlobNotFound))

	_, err = f.Queries.FetchBlob(ctx, service.BlobID{Table: "customer", Field: "logo", Key: map[string]interface{}{"id": 99}})
	assert.True(t, errors.Is(err, service.ErrBlobNotFound))

	_, err = f.Queries.FetchBlob(ctx, service.BlobID{Table: "customer", Field: "logo", Key: map[string]interface{}{"name": "x"}})
	assert.True(t, errors.Is(err, domain.ErrNoPrimaryKey))

	content, err := f.Queries.FetchBlob(ctx, service.BlobID{Table: "customer", Field: "logo", Key: map[string]interface{}{"id": 2}})
	require.NoError(t, err)
	assert.Nil(t, content)
}

func mustLookup(t *testing.T, table *schemadomain.Table, id int) *domain.QueryTree {
	t.Helper()
	columns := []string{}
	if table.Name == "customer" {
		columns = append(columns, "name")
	}
	tree, err := compiler.NewLookupTree(table, columns, map[string]interface{}{"id": id})
	require.NoError(t, err)
	return tree
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
