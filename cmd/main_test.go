package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	args, err := parseArgs(`{"location":"Chamonix","persons_ages":[30,8]}`)
	require.NoError(t, err)
	assert.Equal(t, "Chamonix", args["location"])
	assert.Equal(t, []interface{}{30.0, 8.0}, args["persons_ages"])

	args, err = parseArgs("{}")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = parseArgs("[1,2]")
	assert.Error(t, err)
}
