package graph

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/iancoleman/strcase"
	apierrors "github.com/yukikurage/worker-tasks-graphql/internal/errors"
	"github.com/yukikurage/worker-tasks-graphql/internal/repository"
	"gorm.io/gorm/schema"
)

const reverseOrderPrefix = "reverse:"

var timeType = reflect.TypeOf(time.Time{})

// Attributes is the set of scalar columns of a gorm model. It is the single
// source for the GraphQL fields generated from the model and for the columns
// a list may be ordered by.
type Attributes struct {
	name    string
	columns []*schema.Field
	byName  map[string]*schema.Field
}

// NewAttributes parses model with gorm and keeps every column that maps to a
// GraphQL scalar, except the excluded column names.
func NewAttributes(model interface{}, exclude ...string) (*Attributes, error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	attrs := &Attributes{
		name:   s.Name,
		byName: map[string]*schema.Field{},
	}
	for _, dbName := range s.DBNames {
		if _, ok := skip[dbName]; ok {
			continue
		}
		field := s.FieldsByDBName[dbName]
		if scalarFor(field.IndirectFieldType) == nil {
			continue
		}
		attrs.columns = append(attrs.columns, field)
		attrs.byName[dbName] = field
	}

	return attrs, nil
}

// Fields returns one GraphQL field per column, named in lowerCamel case.
// Primary keys are non-null.
func (a *Attributes) Fields() graphql.Fields {
	fields := make(graphql.Fields, len(a.columns))
	for _, column := range a.columns {
		var typ graphql.Output = scalarFor(column.IndirectFieldType)
		if column.PrimaryKey {
			typ = graphql.NewNonNull(typ)
		}

		fields[strcase.ToLowerCamel(column.DBName)] = &graphql.Field{
			Type: typ,
			Description: fmt.Sprintf("The %s of the %s.",
				strcase.ToDelimited(column.DBName, ' '),
				strcase.ToDelimited(a.name, ' '),
			),
			Resolve: columnResolver(column),
		}
	}
	return fields
}

// ParseOrder turns an order argument into list options. The argument is a
// column name in snake or camel case, optionally prefixed with "reverse:" for
// descending order. An empty argument leaves the order unspecified.
func (a *Attributes) ParseOrder(order string) (repository.ListOptions, error) {
	var opts repository.ListOptions

	order = strings.TrimSpace(order)
	if order == "" {
		return opts, nil
	}

	if strings.HasPrefix(order, reverseOrderPrefix) {
		opts.Desc = true
		order = strings.TrimPrefix(order, reverseOrderPrefix)
	}

	column := strcase.ToSnake(order)
	if _, ok := a.byName[column]; !ok {
		return opts, apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeInvalidInput, "invalid order column", order)
	}
	opts.OrderColumn = column

	return opts, nil
}

// MergeFields returns the union of base and extra. Both sides defining the
// same field is an error.
func MergeFields(base, extra graphql.Fields) (graphql.Fields, error) {
	merged := make(graphql.Fields, len(base)+len(extra))
	for name, field := range base {
		merged[name] = field
	}
	for name, field := range extra {
		if _, ok := merged[name]; ok {
			return nil, fmt.Errorf("field %q is defined twice", name)
		}
		merged[name] = field
	}
	return merged, nil
}

func scalarFor(t reflect.Type) *graphql.Scalar {
	if t == timeType {
		return graphql.DateTime
	}

	switch t.Kind() {
	case reflect.Bool:
		return graphql.Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return graphql.Int
	case reflect.Float32, reflect.Float64:
		return graphql.Float
	case reflect.String:
		return graphql.String
	default:
		return nil
	}
}

func columnResolver(column *schema.Field) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		source := reflect.Indirect(reflect.ValueOf(p.Source))
		if !source.IsValid() || source.Type() != column.Schema.ModelType {
			return nil, fmt.Errorf("cannot resolve %s from %T", column.DBName, p.Source)
		}

		value, _ := column.ValueOf(p.Context, source)
		return value, nil
	}
}
