package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

type Application struct{ ent.Schema }

func (Application) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "applications"},
	}
}

func (Application) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("applicant_name").NotEmpty(),
		field.String("applicant_email").Default(""),
		field.String("applicant_phone").Default(""),
		field.Float("purchase_price").
			Min(0).
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.Float("down_payment").
			Min(0).
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.Float("loan_amount").
			Min(0).
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.String("stage").Default("document_collection"),
		field.String("status").Default("pending"),
		field.Int("progress").Default(0).Min(0).Max(100),
		field.JSON("blockers", []string{}).Optional(),
		field.JSON("next_actions", []string{}).Optional(),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
		field.Time("last_activity_at").Default(time.Now),
	}
}

func (Application) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE application -> MANY documents
		edge.To("documents", Document.Type),
		// ONE application -> MANY compliance checks
		edge.To("compliance_checks", ComplianceCheck.Type),
	}
}
