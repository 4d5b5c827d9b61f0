package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"github.com/yukikurage/worker-tasks-graphql/internal/services"
	"go.uber.org/zap"
)

// Request is a GraphQL request as sent by clients
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Schema is the executable GraphQL schema together with the services its
// resolvers delegate to. Build it once at startup with NewSchema.
type Schema struct {
	schema    graphql.Schema
	users     *services.UserService
	tasks     *services.TaskService
	userAttrs *Attributes
	taskAttrs *Attributes
	log       *zap.Logger
}

// NewSchema assembles the User and Task types and the root query and mutation
// types.
func NewSchema(users *services.UserService, tasks *services.TaskService, log *zap.Logger) (*Schema, error) {
	userAttrs, err := NewAttributes(&models.User{})
	if err != nil {
		return nil, err
	}
	taskAttrs, err := NewAttributes(&models.Task{})
	if err != nil {
		return nil, err
	}

	s := &Schema{
		users:     users,
		tasks:     tasks,
		userAttrs: userAttrs,
		taskAttrs: taskAttrs,
		log:       log,
	}

	taskType := s.defineTaskType()
	userType, err := s.defineUserType(taskType)
	if err != nil {
		return nil, err
	}
	taskType.AddFieldConfig("developers", &graphql.Field{
		Type:        graphql.NewList(userType),
		Description: "The users working on the task.",
		Resolve:     s.resolveTaskDevelopers,
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    s.defineQueryType(userType, taskType),
		Mutation: s.defineMutationType(userType, taskType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	s.schema = schema

	return s, nil
}

// Schema returns the underlying graphql-go schema
func (s *Schema) Schema() graphql.Schema {
	return s.schema
}

// Do executes req against the schema
func (s *Schema) Do(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func (s *Schema) defineTaskType() *graphql.Object {
	// Fields are listed by hand; developers is added once User exists.
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Task",
		Description: "A task",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "The id of the task.",
			},
			"title": &graphql.Field{
				Type:        graphql.String,
				Description: "The title of the task.",
			},
		},
	})
}

func (s *Schema) defineUserType(taskType *graphql.Object) (*graphql.Object, error) {
	fields, err := MergeFields(s.userAttrs.Fields(), graphql.Fields{
		"tasks": &graphql.Field{
			Type:        graphql.NewList(taskType),
			Description: "The tasks assigned to the user.",
			Resolve:     s.resolveUserTasks,
		},
	})
	if err != nil {
		return nil, err
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "User",
		Description: "A user",
		Fields:      fields,
	}), nil
}

func (s *Schema) defineQueryType(userType, taskType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "id of the user",
					},
				},
				Resolve: s.resolveUser,
			},
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Args:    listArgs(),
				Resolve: s.resolveUsers,
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "id of the task",
					},
				},
				Resolve: s.resolveTask,
			},
			"tasks": &graphql.Field{
				Type:    graphql.NewList(taskType),
				Args:    listArgs(),
				Resolve: s.resolveTasks,
			},
		},
	})
}

func (s *Schema) defineMutationType(userType, taskType *graphql.Object) *graphql.Object {
	updateUserOptions := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "UpdateUser",
		Description: "User updates",
		Fields: graphql.InputObjectConfigFieldMap{
			"name": &graphql.InputObjectFieldConfig{
				Type: graphql.String,
			},
		},
	})

	updateTaskOptions := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:        "UpdateTask",
		Description: "Task updates",
		Fields: graphql.InputObjectConfigFieldMap{
			"title": &graphql.InputObjectFieldConfig{
				Type: graphql.String,
			},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutationType",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type:        userType,
				Description: "Creates a new user",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "A name for the user",
					},
				},
				Resolve: s.resolveCreateUser,
			},
			"updateUser": &graphql.Field{
				Type:        userType,
				Description: "Updates a user",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Users Id to update",
					},
					"options": &graphql.ArgumentConfig{
						Type: updateUserOptions,
					},
				},
				Resolve: s.resolveUpdateUser,
			},
			"deleteUser": &graphql.Field{
				Type:        userType,
				Description: "Deletes a user",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "User Id to be deleted",
					},
				},
				Resolve: s.resolveDeleteUser,
			},
			"createTask": &graphql.Field{
				Type:        taskType,
				Description: "Creates a new task",
				Args: graphql.FieldConfigArgument{
					"title": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "A title for the task",
					},
					"userId": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "A id for the User",
					},
				},
				Resolve: s.resolveCreateTask,
			},
			"updateTask": &graphql.Field{
				Type:        taskType,
				Description: "Updates a task",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Tasks Id to update",
					},
					"options": &graphql.ArgumentConfig{
						Type: updateTaskOptions,
					},
				},
				Resolve: s.resolveUpdateTask,
			},
			"deleteTask": &graphql.Field{
				Type:        taskType,
				Description: "Deletes a task",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.Int),
						Description: "Task Id to be deleted",
					},
				},
				Resolve: s.resolveDeleteTask,
			},
			"addTaskToUser": &graphql.Field{
				Type:        userType,
				Description: "Assigns an existing task to a user",
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
					"taskId": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: s.resolveAddTaskToUser,
			},
		},
	})
}

func listArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"limit": &graphql.ArgumentConfig{
			Type:        graphql.Int,
			Description: "Maximum number of items to return",
		},
		"order": &graphql.ArgumentConfig{
			Type:        graphql.String,
			Description: "Column to order by, prefix with reverse: for descending order",
		},
	}
}
