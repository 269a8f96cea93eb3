package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-tenant-store/internal/config"
	"github.com/jrsteele09/go-tenant-store/internal/logging"
	"github.com/jrsteele09/go-tenant-store/tenants"
	"github.com/jrsteele09/go-tenant-store/tenants/observe"
	"github.com/jrsteele09/go-tenant-store/tenants/xmlstore"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type app struct {
	out    io.Writer
	errOut io.Writer

	cfg         config.Config
	logger      zerolog.Logger
	registry    *prometheus.Registry
	file        string
	metricsFile string
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "tenantctl",
		Short: "Inspect and edit the tenant store file",
		Long: `Inspect and edit the tenant store file.

The store file defaults to $TENANT_STORE_HOME/data/tenant-store.xml and can be
overridden with TENANT_STORE_FILE or --file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(a.out, appBanner(a.cfg.GetAppName()))
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.file, "file", "", "Path to the tenant store file")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write operation metrics in Prometheus text format to this file")

	root.AddCommand(
		a.newCreateStoreCommand(),
		a.newGetCommand(),
		a.newPutCommand(),
		a.newListCommand(),
		a.newDeleteCommand(),
		a.newExportCommand(),
	)

	// cobra skips post-run hooks when RunE fails, so metrics are written here.
	root.RunE = a.withMetrics(root.RunE)
	for _, cmd := range root.Commands() {
		cmd.RunE = a.withMetrics(cmd.RunE)
	}
	return root
}

func (a *app) withMetrics(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, a.writeMetrics())
	}
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.GetLogLevel(), cfg.GetLogFormat(), a.errOut)
	if err != nil {
		return err
	}
	if a.file == "" {
		a.file = cfg.GetStoreFile()
	}
	a.registry = prometheus.NewRegistry()
	return nil
}

// openRepo loads the store file and returns it wrapped with logging and metrics.
func (a *app) openRepo() (tenants.Repo, error) {
	var repo tenants.Repo = xmlstore.New(a.file)
	repo = observe.NewLoggingRepo(repo, a.logger)
	repo = observe.NewMetricsRepo(repo, observe.NewMetrics(a.registry))
	if err := repo.Init(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("[tenantctl] failed to write metrics: %w", err)
	}
	return nil
}

func (a *app) newCreateStoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-store",
		Short: "Create an empty store file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := os.Stat(a.file)
			if err == nil {
				fmt.Fprintf(a.out, "Store already exists: %s\n", a.file)
				return nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("[tenantctl create-store] %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(a.file), 0o755); err != nil {
				return fmt.Errorf("[tenantctl create-store] %w", err)
			}
			if err := xmlstore.WriteFile(a.file, &xmlstore.TenantRecordCollection{}); err != nil {
				return err
			}
			a.logger.Info().Str("path", a.file).Msg("Created tenant store")
			fmt.Fprintf(a.out, "Created %s\n", a.file)
			return nil
		},
	}
}

func (a *app) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <domain>",
		Short: "Show a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			t, err := repo.Load(args[0])
			if err != nil {
				return err
			}
			return a.writeYAML(t)
		},
	}
}

type putFlags struct {
	id            string
	domain        string
	name          string
	description   string
	adminUser     string
	adminEmail    string
	parentDomain  string
	parentDepth   int
	depth         int
	createdString string
}

func (a *app) newPutCommand() *cobra.Command {
	var f putFlags
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Add a tenant, replacing any tenant with the same domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			t := &tenants.Tenant{
				ID:               f.id,
				Domain:           f.domain,
				Name:             f.name,
				Description:      f.description,
				CreatedDate:      time.Now().UTC().Truncate(time.Second),
				AdminUsername:    f.adminUser,
				AdminEmail:       f.adminEmail,
				DepthOfHierarchy: f.depth,
			}
			if t.ID == "" {
				t.ID = uuid.New().String()
			}
			if f.createdString != "" {
				if t.CreatedDate, err = time.Parse(time.RFC3339, f.createdString); err != nil {
					return fmt.Errorf("[tenantctl put] invalid --created: %w", err)
				}
			}

			if f.parentDomain != "" {
				// The store does not keep hierarchy on load, so the parent's
				// depth has to come from the command line.
				parent, err := repo.Load(f.parentDomain)
				if err != nil {
					return fmt.Errorf("[tenantctl put] parent: %w", err)
				}
				if cmd.Flags().Changed("parent-depth") {
					parent.DepthOfHierarchy = f.parentDepth
				}
				t.Parent = parent
			}

			if err := repo.Persist(t); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved tenant %s (%s)\n", t.Domain, t.ID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.id, "id", "", "Tenant ID (generated when empty)")
	fl.StringVar(&f.domain, "domain", "", "Tenant domain")
	fl.StringVar(&f.name, "name", "", "Display name")
	fl.StringVar(&f.description, "description", "", "Description")
	fl.StringVar(&f.adminUser, "admin-user", "", "Admin username")
	fl.StringVar(&f.adminEmail, "admin-email", "", "Admin email address")
	fl.StringVar(&f.parentDomain, "parent-domain", "", "Domain of the parent tenant")
	fl.IntVar(&f.parentDepth, "parent-depth", 0, "Depth of the parent tenant")
	fl.IntVar(&f.depth, "depth", 0, "Depth of hierarchy for a tenant without a parent")
	fl.StringVar(&f.createdString, "created", "", "Creation time (RFC 3339), defaults to now")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func (a *app) newListCommand() *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants in store order",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			list, err := repo.List(offset, limit)
			if err != nil {
				return err
			}

			w := tablewriter.NewWriter(a.out)
			w.SetBorder(false)
			w.SetAutoWrapText(false)
			w.SetAlignment(tablewriter.ALIGN_LEFT)
			w.SetHeader([]string{"Domain", "Name", "Admin", "ID"})
			for _, t := range list {
				w.Append([]string{t.Domain, t.Name, t.AdminEmail, t.ID})
			}
			w.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of tenants to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tenants, 0 for all")
	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <domain>",
		Short: "Delete a tenant (not supported by the file store)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			t, err := repo.Delete(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted tenant %s\n", t.Domain)
			return nil
		},
	}
}

func (a *app) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every tenant as YAML",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			list, err := repo.List(0, 0)
			if err != nil {
				return err
			}
			return a.writeYAML(list)
		},
	}
}

func (a *app) writeYAML(v any) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("[tenantctl] failed to encode yaml: %w", err)
	}
	return enc.Close()
}
