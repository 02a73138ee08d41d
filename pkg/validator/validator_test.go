package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type permissionPayload struct {
	Name        string `json:"name" validate:"required,permission_name"`
	Description string `json:"description" validate:"max=500"`
}

func TestValidateStructPermissionName(t *testing.T) {
	require.NoError(t, ValidateStruct(permissionPayload{Name: "blogs:update"}))

	err := ValidateStruct(permissionPayload{Name: "blogsupdate"})
	require.Error(t, err)

	ve, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Equal(t, "name", ve[0].Field)
	require.Equal(t, "permission_name", ve[0].Tag)
}

func TestValidateStructRejectsEdgeColons(t *testing.T) {
	require.Error(t, ValidateStruct(permissionPayload{Name: ":update"}))
	require.Error(t, ValidateStruct(permissionPayload{Name: "blogs:"}))
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(permissionPayload{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name failed on required")
}
