package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("MOBILEMOUSE_CONFIG", "")

	assert.Equal(t, "a.yaml", findUserConfig([]string{"--config=a.yaml"}))
	assert.Equal(t, "b.toml", findUserConfig([]string{"serve", "--config", "b.toml", "--port=1"}))
	assert.Equal(t, "", findUserConfig([]string{"--config"}))
	assert.Equal(t, "", findUserConfig([]string{"config", "init"}))

	t.Setenv("MOBILEMOUSE_CONFIG", "/etc/mobilemouse.json")
	assert.Equal(t, "/etc/mobilemouse.json", findUserConfig(nil))
	assert.Equal(t, "c.json", findUserConfig([]string{"--config=c.json"}))
}
