package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFileFromArgs(t *testing.T) {
	assert.Equal(t, "", configFileFromArgs(nil))
	assert.Equal(t, "", configFileFromArgs([]string{"extract", "export.zip"}))
	assert.Equal(t, "cfg.yml", configFileFromArgs([]string{"--config", "cfg.yml", "extract"}))
	assert.Equal(t, "cfg.yml", configFileFromArgs([]string{"extract", "--config=cfg.yml"}))

	// trailing --config with no value is ignored
	assert.Equal(t, "", configFileFromArgs([]string{"extract", "--config"}))
}
