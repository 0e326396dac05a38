package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"

	"soundmap/constants"
)

type Job struct{ ent.Schema }

func (Job) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "job"},
	}
}

func (Job) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.String("filename").NotEmpty(),
		field.String("status").
			Default(string(constants.JobStatusProcessing)).
			Validate(enumValidator(constants.JobStatuses...)),
		field.Time("created_at").Default(time.Now).Immutable(),
		// Absent until the runner's terminal write on success.
		field.Time("processed_at").Optional().Nillable(),
		// Ordered artifact filenames; empty until terminal success.
		field.JSON("plots", []string{}).Optional(),
		field.String("preview_html").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.String("error_message").Optional().Nillable(),
	}
}

func (Job) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "processed_at"),
	}
}
