package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azurelinux/aitl/internal/arm"
	"github.com/azurelinux/aitl/internal/auth"
	"github.com/azurelinux/aitl/internal/config"
	"github.com/azurelinux/aitl/internal/imagetest"
	"github.com/azurelinux/aitl/pkg/logger"
	"github.com/azurelinux/aitl/pkg/telemetry"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.TelemetryEnabled {
		tel, err := telemetry.Initialize("aitl")
		if err != nil {
			log.Error("failed to initialize telemetry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				log.Error("failed to shutdown telemetry", slog.String("error", err.Error()))
			}
		}()
	}

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	a := &aitl{cfg: cfg, log: log}

	if err := a.app().RunContext(ctx, os.Args); err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// aitl wires the authenticated session through to the command handlers. The
// client is constructed once in the Before hook, after the global flags have
// been parsed.
type aitl struct {
	cfg    *config.Config
	log    *slog.Logger
	client *arm.Client
}

func (a *aitl) app() *cli.App {
	return &cli.App{
		Name:                 "aitl",
		Usage:                "CLI client for the Azure Image Testing for Linux API",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "resource-group",
				Aliases:  []string{"g"},
				Usage:    "Azure Resource Group name.",
				EnvVars:  []string{"AZURE_RESOURCE_GROUP"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "client-id",
				Usage:    "Azure client ID used for authentication.",
				EnvVars:  []string{"AZURE_CLIENT_ID"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "client-secret",
				Usage:    "Azure client secret used for authentication.",
				EnvVars:  []string{"AZURE_CLIENT_SECRET"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "tenant-id",
				Usage:    "Azure tenant ID.",
				EnvVars:  []string{"AZURE_TENANT_ID"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "subscription-id",
				Usage:    "Azure subscription ID.",
				EnvVars:  []string{"AZURE_SUBSCRIPTION_ID"},
				Required: true,
			},
		},
		Before: a.authenticate,
		Commands: []*cli.Command{
			{
				Name:   "list-templates",
				Usage:  "List all the test job templates",
				Action: a.listTemplates,
			},
			{
				Name:  "get-template",
				Usage: "Get a test job template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Job template name.",
						Required: true,
					},
				},
				Action: a.getTemplate,
			},
			{
				Name:        "create-template",
				Usage:       "Create a new test job template",
				Description: "If --test-priority and --test-case are not set, only p0 tests will be run (smoke tests).",
				Flags:       append(templateFlags(), nameFlag("Job template name.")),
				Action:      a.createTemplate,
			},
			{
				Name:   "list-jobs",
				Usage:  "List all the test jobs",
				Action: a.listJobs,
			},
			{
				Name:  "get-job",
				Usage: "Get a test job. Can be used to get the current status of the job",
				Flags: []cli.Flag{
					nameFlag("Job name."),
				},
				Action: a.getJob,
			},
			{
				Name:  "delete-job",
				Usage: "Delete a test job",
				Flags: []cli.Flag{
					nameFlag("Job name."),
				},
				Action: a.deleteJob,
			},
			{
				Name:        "create-job",
				Usage:       "Create a new test job",
				Description: "If --test-priority and --test-case are not set, only p0 tests will be run (smoke tests).",
				Flags: append(templateFlags(),
					nameFlag("Job name."),
					&cli.StringFlag{
						Name:    "marketplace-image-urn",
						Aliases: []string{"u"},
						Usage:   "URN of the image (\"az vm image list -p Canonical --all\").",
					},
					&cli.StringFlag{
						Name:    "vhd-sas-url",
						Aliases: []string{"v"},
						Usage:   "SAS URL of a VHD to test.",
					},
					&cli.StringFlag{
						Name:    "architecture",
						Aliases: []string{"a"},
						Usage:   "Architecture of the image (x64 or arm64).",
					},
					&cli.IntFlag{
						Name:  "vm-generation",
						Usage: "Hyper-V generation.",
						Value: 2,
					},
					&cli.StringFlag{
						Name:    "template-name",
						Aliases: []string{"t"},
						Usage:   "Job template name.",
					},
				),
				Action: a.createJob,
			},
		},
	}
}

// authenticate exchanges the service principal for a token and builds the
// ARM session. Skipped when no command was given so bare "aitl" can print
// help without a network call.
func (a *aitl) authenticate(c *cli.Context) error {
	if !c.Args().Present() {
		return nil
	}

	creds := auth.Credentials{
		TenantID:     c.String("tenant-id"),
		ClientID:     c.String("client-id"),
		ClientSecret: c.String("client-secret"),
		Authority:    a.cfg.LoginEndpoint,
	}

	a.log.Debug("requesting access token", slog.String("tenant_id", creds.TenantID))

	token, err := creds.Token(c.Context)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	a.client = arm.NewClient(arm.Options{
		Token:          token,
		Endpoint:       a.cfg.ARMEndpoint,
		SubscriptionID: c.String("subscription-id"),
		ResourceGroup:  c.String("resource-group"),
		Logger:         a.log,
	})

	return nil
}

func (a *aitl) listTemplates(c *cli.Context) error {
	return a.client.Get(c.Context, a.client.Endpoint("jobTemplates"))
}

func (a *aitl) getTemplate(c *cli.Context) error {
	return a.client.Get(c.Context, a.client.Endpoint("jobTemplates/"+c.String("name")))
}

func (a *aitl) createTemplate(c *cli.Context) error {
	if err := checkRange(c, "concurrency", 0, 4); err != nil {
		return err
	}

	template := imagetest.BuildTemplate(
		c.String("vm-size"),
		c.IntSlice("test-priority"),
		c.StringSlice("test-case"),
		c.String("location"),
		c.StringSlice("region"),
		c.Int("concurrency"),
	)

	payload := imagetest.TemplateCreateRequest{
		Location:   c.String("location"),
		Name:       c.String("name"),
		Properties: template,
	}

	return a.client.Put(c.Context, a.client.Endpoint("jobTemplates/"+c.String("name")), payload)
}

func (a *aitl) listJobs(c *cli.Context) error {
	return a.client.Get(c.Context, a.client.Endpoint("jobs"))
}

func (a *aitl) getJob(c *cli.Context) error {
	return a.client.Get(c.Context, a.client.Endpoint("jobs/"+c.String("name")))
}

func (a *aitl) deleteJob(c *cli.Context) error {
	return a.client.Delete(c.Context, a.client.Endpoint("jobs/"+c.String("name")))
}

func (a *aitl) createJob(c *cli.Context) error {
	if err := checkRange(c, "concurrency", 0, 4); err != nil {
		return err
	}
	if err := checkRange(c, "vm-generation", 1, 2); err != nil {
		return err
	}
	if arch := c.String("architecture"); arch != "" && arch != "x64" && arch != "arm64" {
		return fmt.Errorf("invalid value for --architecture: %q (valid: x64, arm64)", arch)
	}

	payload, endpoint, err := imagetest.BuildJobCreateRequest(imagetest.JobParams{
		MarketplaceImageURN: c.String("marketplace-image-urn"),
		VHDSASURL:           c.String("vhd-sas-url"),
		JobName:             c.String("name"),
		TemplateName:        c.String("template-name"),
		ResourceGroup:       c.String("resource-group"),
		SubscriptionID:      c.String("subscription-id"),
		VMSize:              c.String("vm-size"),
		TestPriorities:      c.IntSlice("test-priority"),
		TestCases:           c.StringSlice("test-case"),
		Location:            c.String("location"),
		Regions:             c.StringSlice("region"),
		Concurrency:         c.Int("concurrency"),
		VMGeneration:        c.Int("vm-generation"),
		Architecture:        c.String("architecture"),
		Endpoint:            a.cfg.ARMEndpoint,
	})
	if err != nil {
		return err
	}

	return a.client.Put(c.Context, endpoint, payload)
}

// templateFlags are the inputs shared by create-template and create-job,
// everything that feeds the job template instance.
func templateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "vm-size",
			Aliases: []string{"s"},
			Usage:   "VM size.",
		},
		&cli.IntSliceFlag{
			Name:    "test-priority",
			Aliases: []string{"p"},
			Usage:   "Test priority to run.",
		},
		&cli.StringSliceFlag{
			Name:    "test-case",
			Aliases: []string{"c"},
			Usage:   "Test case to run.",
		},
		&cli.StringFlag{
			Name:    "location",
			Aliases: []string{"l"},
			Usage:   "Job template location, it's not required to be changed.",
			Value:   "westus3",
		},
		&cli.StringSliceFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "Regions where the test resources will be provisioned.",
			Value:   cli.NewStringSlice("westeurope"),
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "The number of tests to run in parallel.",
			Value: 0,
		},
	}
}

func nameFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    usage,
		Required: true,
	}
}

func checkRange(c *cli.Context, flag string, min, max int) error {
	if v := c.Int(flag); v < min || v > max {
		return fmt.Errorf("invalid value for --%s: %d is not in the range %d..%d", flag, v, min, max)
	}
	return nil
}
