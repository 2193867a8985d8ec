package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	hearingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Hearing",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"slug":      &graphql.Field{Type: graphql.String},
			"published": &graphql.Field{Type: graphql.Boolean},
			"title": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"lang": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "fi"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					h := p.Source.(domain.Hearing)
					return h.Title[p.Args["lang"].(string)], nil
				},
			},
			"geojson": &graphql.Field{
				Type:        graphql.String,
				Description: "Stored geometry as a JSON document",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(domain.Hearing).GeoJSON), nil
				},
			},
		},
	})

	layerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapLayer",
		Fields: graphql.Fields{
			"key": &graphql.Field{Type: graphql.String},
			"kind": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(mapview.Layer).Kind), nil
				},
			},
			"positions": &graphql.Field{Type: graphql.NewList(geoPointType)},
			"data": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l := p.Source.(mapview.Layer)
					if l.Data == nil {
						return nil, nil
					}
					return string(l.Data), nil
				},
			},
		},
	})

	hearingMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HearingMap",
		Fields: graphql.Fields{
			"hearing_id": &graphql.Field{Type: graphql.String},
			"layers":     &graphql.Field{Type: graphql.NewList(layerType)},
			"viewport":   &graphql.Field{Type: boundsType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hearing": &graphql.Field{
				Type:        hearingType,
				Description: "Get a hearing by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					h, err := deps.Hearings.GetByID(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return *h, nil
				},
			},
			"hearings": &graphql.Field{
				Type:        graphql.NewList(hearingType),
				Description: "List hearings, newest first",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					hs, _, err := deps.Hearings.List(p.Context, p.Args["limit"].(int), p.Args["offset"].(int))
					return hs, err
				},
			},
			"hearingMap": &graphql.Field{
				Type:        hearingMapType,
				Description: "Render layers and viewport of a hearing",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Hearings.MapView(p.Context, p.Args["id"].(string), mapview.Platform{Surface: true})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
