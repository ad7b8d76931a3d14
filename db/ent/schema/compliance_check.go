package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

type ComplianceCheck struct{ ent.Schema }

func (ComplianceCheck) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "compliance_checks"},
	}
}

func (ComplianceCheck) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("application_id", uuid.UUID{}),
		field.String("rule_id").NotEmpty(),
		field.String("regulatory_body").NotEmpty(),
		field.String("status").Default("passed"),
		field.String("description").Default(""),
		field.Time("checked_at").Default(time.Now),
		field.JSON("notes", []string{}).Optional(),
	}
}

func (ComplianceCheck) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY checks -> ONE application (FK: compliance_checks.application_id)
		edge.From("application", Application.Type).
			Ref("compliance_checks").
			Field("application_id").
			Required().
			Unique(),
	}
}
