package main

import (
	"fmt"
	"strings"
	"sync"

	"visionforge/internal/api"
	"visionforge/internal/config"
)

type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiBaseURL resolves the daemon endpoint: the --api flag wins, otherwise
// the configured bind address is used.
func (c *commandContext) apiBaseURL() (string, error) {
	if c.apiFlag != nil {
		if flag := strings.TrimSpace(*c.apiFlag); flag != "" {
			if !strings.HasPrefix(flag, "http://") && !strings.HasPrefix(flag, "https://") {
				flag = "http://" + flag
			}
			return flag, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return "", fmt.Errorf("no api bind address configured; pass --api or set paths.api_bind")
	}
	return "http://" + bind, nil
}

func (c *commandContext) client() (*api.Client, error) {
	baseURL, err := c.apiBaseURL()
	if err != nil {
		return nil, err
	}
	return api.NewClient(baseURL), nil
}
