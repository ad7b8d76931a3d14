package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type Document struct{ ent.Schema }

func (Document) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "documents"},
	}
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("application_id", uuid.UUID{}),
		field.String("doc_type").Default("generic"),
		field.String("filename").Default(""),
		field.Time("uploaded_at").Default(time.Now).Immutable(),
		field.Time("processed_at").Optional().Nillable(),
		field.JSON("fields", map[string]any{}).Optional(),
		field.JSON("metadata", map[string]any{}).Optional(),
		field.JSON("issues", []map[string]any{}).Optional(),
		field.Bool("verified").Default(false),
	}
}

func (Document) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY documents -> ONE application (FK: documents.application_id)
		edge.From("application", Application.Type).
			Ref("documents").
			Field("application_id").
			Required().
			Unique(),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("application_id", "doc_type"),
	}
}
