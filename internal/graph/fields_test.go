package graph

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/worker-tasks-graphql/internal/errors"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
)

func TestAttributes_UserFields(t *testing.T) {
	attrs, err := NewAttributes(&models.User{})
	require.NoError(t, err)

	fields := attrs.Fields()
	assert.ElementsMatch(t, []string{"id", "name", "createdAt", "updatedAt"}, keys(fields))

	assert.Equal(t, graphql.NewNonNull(graphql.Int).String(), fields["id"].Type.String())
	assert.Equal(t, graphql.String, fields["name"].Type)
	assert.Equal(t, graphql.DateTime, fields["createdAt"].Type)
	assert.Equal(t, "The name of the user.", fields["name"].Description)
}

func TestAttributes_SkipsNonScalarAndExcludedColumns(t *testing.T) {
	attrs, err := NewAttributes(&models.Task{}, "updated_at")
	require.NoError(t, err)

	// users is a JSON column and has no scalar mapping
	assert.ElementsMatch(t, []string{"id", "title", "createdAt"}, keys(attrs.Fields()))
}

func TestAttributes_ResolveFromModel(t *testing.T) {
	attrs, err := NewAttributes(&models.User{})
	require.NoError(t, err)
	fields := attrs.Fields()

	user := &models.User{ID: 7, Name: "Alice"}

	id, err := fields["id"].Resolve(graphql.ResolveParams{Source: user})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	name, err := fields["name"].Resolve(graphql.ResolveParams{Source: *user})
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = fields["name"].Resolve(graphql.ResolveParams{Source: &models.Task{}})
	assert.Error(t, err)
}

func TestAttributes_ParseOrder(t *testing.T) {
	attrs, err := NewAttributes(&models.User{})
	require.NoError(t, err)

	tests := []struct {
		order  string
		column string
		desc   bool
	}{
		{"", "", false},
		{"name", "name", false},
		{"reverse:name", "name", true},
		{"createdAt", "created_at", false},
		{"reverse:created_at", "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			opts, err := attrs.ParseOrder(tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.column, opts.OrderColumn)
			assert.Equal(t, tt.desc, opts.Desc)
		})
	}

	_, err = attrs.ParseOrder("name; DROP TABLE users")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, apiErr.Code)
}

func TestMergeFields(t *testing.T) {
	base := graphql.Fields{"id": &graphql.Field{Type: graphql.Int}}

	merged, err := MergeFields(base, graphql.Fields{"tasks": &graphql.Field{Type: graphql.String}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "tasks"}, keys(merged))
	assert.Len(t, base, 1)

	_, err = MergeFields(base, graphql.Fields{"id": &graphql.Field{Type: graphql.String}})
	assert.Error(t, err)
}

func keys(fields graphql.Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
