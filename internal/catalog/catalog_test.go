package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredSkills(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		first string
		size  int
	}{
		{"exact", "data analyst", "SQL", 12},
		{"case and spaces", "  Data Analyst ", "SQL", 12},
		{"alias", "ML Engineer", "Python", 11},
		{"role contains key", "Senior Backend Developer", "Python", 10},
		{"key contains role", "devops", "Linux", 10},
		{"sde alias", "SDE", "Data Structures", 11},
		{"unknown", "unknown-role-xyz", "Problem Solving", 7},
		{"empty", "   ", "Problem Solving", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skills := RequiredSkills(tt.role)
			require.Len(t, skills, tt.size)
			assert.Equal(t, tt.first, skills[0])
		})
	}
}

func TestRequiredSkills_SubstringFollowsCatalogOrder(t *testing.T) {
	// "data" is contained in both data analyst and data scientist; the first entry wins.
	assert.Equal(t, RequiredSkills("data analyst"), RequiredSkills("data"))
	// "ai engineer" is a substring of "genai engineer" but the exact key is found first.
	assert.Contains(t, RequiredSkills("ai engineer"), "Cloud Platforms")
	assert.Contains(t, RequiredSkills("genai engineer"), "Azure OpenAI")
}

func TestRequiredSkills_NeverEmptyForUnknownRoles(t *testing.T) {
	for _, role := range []string{"astronaut", "chef", "zzz", "???"} {
		skills := RequiredSkills(role)
		assert.NotEmpty(t, skills, role)
		assert.Equal(t, DefaultSkills(), skills, role)
	}
}

func TestRequiredSkills_ReturnsCopy(t *testing.T) {
	skills := RequiredSkills("data analyst")
	skills[0] = "mutated"

	assert.Equal(t, "SQL", RequiredSkills("data analyst")[0])
}

func TestRoles(t *testing.T) {
	roles := Roles()
	assert.Equal(t, "data analyst", roles[0])
	assert.Len(t, Entries(), len(roles))
}
