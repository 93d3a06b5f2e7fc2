package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"postcurator/internal/models"
)

func TestPrintTree(t *testing.T) {
	two, zero := 2, 0
	forest := []models.TreeNode{
		{ID: 1, Name: "economy", PostCount: &zero, Children: []models.TreeNode{
			{ID: 2, Name: "investing", PostCount: &two, Children: []models.TreeNode{}},
		}},
		{ID: 4, Name: "politics", PostCount: &zero, Children: []models.TreeNode{}},
	}

	var buf bytes.Buffer
	printTree(&buf, forest)

	assert.Equal(t, "economy [1] (0)\n  investing [2] (2)\npolitics [4] (0)\n", buf.String())
}

func TestPrintTreeWithoutCounts(t *testing.T) {
	var buf bytes.Buffer
	printTree(&buf, []models.TreeNode{{ID: 1, Name: "economy", Children: []models.TreeNode{}}})

	assert.Equal(t, "economy [1]\n", buf.String())
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "ingest", "tree"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}
