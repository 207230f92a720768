package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendRequest struct {
	RecipientID   *int64  `json:"recipientId,omitempty" validate:"omitempty,gt=0"`
	RecipientRole *string `json:"recipientRole,omitempty" validate:"required_with=RecipientID,omitempty,rolekind"`
	Subject       string  `json:"subject" validate:"required,max=200"`
}

func TestRoleKindRule(t *testing.T) {
	v := New()
	id := int64(4)

	for _, role := range []string{"STUDENT", "professor", " Institution "} {
		r := role
		assert.NoError(t, v.Struct(sendRequest{RecipientID: &id, RecipientRole: &r, Subject: "hi"}), role)
	}

	bad := "ADMIN"
	issues := Issues(v.Struct(sendRequest{RecipientID: &id, RecipientRole: &bad, Subject: "hi"}))
	require.Len(t, issues, 1)
	assert.Equal(t, "recipientRole", issues[0].Field)
	assert.Contains(t, issues[0].Message, "STUDENT, PROFESSOR, INSTITUTION")
}

func TestIssuesUseJSONNames(t *testing.T) {
	v := New()
	id := int64(4)

	issues := Issues(v.Struct(sendRequest{RecipientID: &id, Subject: strings.Repeat("x", SubjectMaxLength+1)}))
	require.Len(t, issues, 2)

	byField := map[string]string{}
	for _, is := range issues {
		byField[is.Field] = is.Message
	}
	assert.Equal(t, "recipientRole is required when RecipientID is set", byField["recipientRole"])
	assert.Equal(t, "subject must be at most 200", byField["subject"])
}

func TestIssuesIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Issues(assert.AnError))
}
