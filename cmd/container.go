package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/rios0rios0/autorelease/application"
	"github.com/rios0rios0/autorelease/config"
	"github.com/rios0rios0/autorelease/domain"
	"github.com/rios0rios0/autorelease/infrastructure/history"
	"github.com/rios0rios0/autorelease/infrastructure/project"
	publisherPkg "github.com/rios0rios0/autorelease/infrastructure/publisher"
	ghPub "github.com/rios0rios0/autorelease/infrastructure/publisher/github"
	glPub "github.com/rios0rios0/autorelease/infrastructure/publisher/gitlab"
	localPub "github.com/rios0rios0/autorelease/infrastructure/publisher/local"
	prPub "github.com/rios0rios0/autorelease/infrastructure/publisher/pullrequest"
)

// loadConfig resolves the configuration from --config or the default
// locations, falling back to a local git publisher rooted at the working
// directory when no file exists. Flags override file values.
func loadConfig() (*config.Config, error) {
	cfg, err := readConfigFile()
	if err != nil {
		return nil, err
	}

	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	if modeOverride != "" {
		cfg.Publisher.Mode = modeOverride
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func readConfigFile() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return config.Default(), nil
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// injectService wires the collaborators through the DIG container and
// returns the assembled release service.
func injectService(cfg *config.Config) (*application.ReleaseService, error) {
	container := dig.New()

	if err := registerProviders(container, cfg); err != nil {
		return nil, err
	}

	var service *application.ReleaseService
	if err := container.Invoke(func(svc *application.ReleaseService) {
		service = svc
	}); err != nil {
		return nil, fmt.Errorf("failed to build the release service: %w", err)
	}

	return service, nil
}

// registerProviders registers all collaborator constructors with the DIG
// container, bottom-up: config, then the infrastructure adapters, then the
// application service.
func registerProviders(container *dig.Container, cfg *config.Config) error {
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return err
	}
	if err := container.Provide(func(c *config.Config) domain.ProjectReader {
		return project.NewReader(c.Root)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(c *config.Config) domain.Writer {
		return project.NewWriter(c.Root)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(c *config.Config) domain.HistoryProvider {
		return history.New(c.Root)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(c *config.Config) (domain.Publisher, error) {
		return buildPublisherRegistry().Get(c.Root, c.Publisher)
	}); err != nil {
		return err
	}
	if err := container.Provide(application.NewReleaseService); err != nil {
		return err
	}

	return nil
}

func buildPublisherRegistry() *publisherPkg.Registry {
	reg := publisherPkg.NewRegistry()
	reg.Register(config.ModeGit, localPub.New)
	reg.Register(config.ModeGitHub, ghPub.New)
	reg.Register(config.ModeGitLab, glPub.New)
	reg.Register(config.ModePR, prPub.New)
	return reg
}

// executeRelease runs one full release cycle in the requested mode.
func executeRelease(ctx context.Context, apply bool) (*application.ReleaseResult, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	service, err := injectService(cfg)
	if err != nil {
		return nil, err
	}

	return service.Run(ctx, application.ReleaseOptions{Apply: apply, Verbose: verbose})
}
