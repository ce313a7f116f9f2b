// Package cli — команды flexplan: solve, bench, version.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flexPlan/internal/config"
	"flexPlan/internal/logging"
	"flexPlan/internal/metrics"
)

// app — общее состояние команд, заполняется в PersistentPreRunE.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string

	cfg     config.Config
	log     logging.Logger
	metrics metrics.Collector
	// metricsURL — адрес поднятого сервера метрик, пусто если он не запущен.
	metricsURL string
	stop       func()
}

// NewRootCmd собирает дерево команд.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{
		log:     logging.NewNop(),
		metrics: metrics.NewNop(),
		stop:    func() {},
	}

	root := &cobra.Command{
		Use:           "flexplan",
		Short:         "Гибкое планирование техпроцесса гармоническим поиском",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "путь к YAML-файлу конфигурации")
	pf.StringVar(&a.logLevel, "log-level", "", "уровень логирования: debug | info | warn | error")
	pf.StringVar(&a.logFormat, "log-format", "", "формат логов: text | json")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "адрес HTTP для метрик Prometheus (например, :9090); пусто — отключено")

	root.AddCommand(newSolveCmd(a), newBenchCmd(a), newVersionCmd())
	return root, a
}

// execute запускает команду и останавливает сервер метрик при любом исходе.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	defer a.stop()
	return root.ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg

	l, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = l

	if a.metricsAddr != "" {
		collector, bound, stop, err := serveMetrics(a.metricsAddr, a.log)
		if err != nil {
			return err
		}
		a.metrics = collector
		a.metricsURL = "http://" + bound + "/metrics"
		a.stop = stop
	}
	return nil
}

// Execute запускает CLI и возвращает код выхода.
// SIGINT/SIGTERM отменяют контекст: солверы вернут частичный результат.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root, a := newRootCmd()
	if err := execute(ctx, root, a); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		return 1
	}
	return 0
}
