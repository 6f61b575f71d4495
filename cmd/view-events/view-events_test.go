package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsDefaults(t *testing.T) {
	conf := viper.New()
	require.NoError(t, bindFlags(conf, nil))
	assert.Equal(t, int64(-10000), conf.GetInt64("from"))
	assert.Equal(t, "", conf.GetString("registry"))
	assert.False(t, conf.GetBool("relays"))
}

func TestBindFlagsOverride(t *testing.T) {
	conf := viper.New()
	require.NoError(t, bindFlags(conf, []string{"--from=-5", "--registry", "abc", "--relays"}))
	assert.Equal(t, int64(-5), conf.GetInt64("from"))
	assert.Equal(t, "abc", conf.GetString("registry"))
	assert.True(t, conf.GetBool("relays"))
}

func TestBindFlagsRejectsUnknown(t *testing.T) {
	assert.Error(t, bindFlags(viper.New(), []string{"--nope"}))
}
