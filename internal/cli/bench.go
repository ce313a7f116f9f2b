package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flexPlan/internal/bench"
	"flexPlan/internal/catalog"
)

type benchOptions struct {
	out          string
	pairs        string
	algos        string
	runs         int
	baseSeed     int64
	instanceSeed int64
	perRunTO     time.Duration
	workers      int
}

func newBenchCmd(a *app) *cobra.Command {
	o := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Сравнение алгоритмов на наборе экземпляров",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBench(cmd, o)
		},
	}

	// Значения по умолчанию для runs/seed/... берутся из конфигурации, если флаг не задан
	f := cmd.Flags()
	f.StringVar(&o.out, "out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	f.StringVar(&o.pairs, "pairs", "example1,20x5,50x10", "экземпляры через запятую: OPSxMACHINES, имя встроенного или путь к файлу")
	f.StringVar(&o.algos, "algos", "HS,GA,SA,TS,ACO,PSO", "список алгоритмов: HS, GA, SA, TS, ACO, PSO (через запятую)")
	f.IntVar(&o.runs, "runs", 0, "количество запусков каждого алгоритма (с разными сидами)")
	f.Int64Var(&o.baseSeed, "seed", 0, "базовый сид для запусков алгоритмов")
	f.Int64Var(&o.instanceSeed, "instance_seed", 0, "базовый сид для генерации экземпляров задачи")
	f.DurationVar(&o.perRunTO, "per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	f.IntVar(&o.workers, "workers", 0, "число параллельных запусков; 0 — GOMAXPROCS")
	return cmd
}

func (a *app) runBench(cmd *cobra.Command, o *benchOptions) error {
	bc := a.cfg.Bench
	f := cmd.Flags()
	if f.Changed("runs") {
		bc.Runs = o.runs
	}
	if f.Changed("seed") {
		bc.BaseSeed = o.baseSeed
	}
	if f.Changed("instance_seed") {
		bc.InstanceSeed = o.instanceSeed
	}
	if f.Changed("per_run_timeout") {
		bc.PerRunTimeout = o.perRunTO
	}
	if f.Changed("workers") {
		bc.Workers = o.workers
	}

	cases, err := parseCases(o.pairs, bc.InstanceSeed)
	if err != nil {
		return fmt.Errorf("конфликт: %w", err)
	}

	available := a.algorithms()
	var selected []bench.Algorithm
	for _, name := range splitCSV(o.algos) {
		al, ok := available[strings.ToUpper(name)]
		if !ok {
			return fmt.Errorf("алгоритм %q не предоставлен в программе; доступные: %v", name, keys(available))
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          bc.Runs,
		BaseSeed:      bc.BaseSeed,
		PerRunTimeout: bc.PerRunTimeout,
		Workers:       bc.Workers,
	}

	w := cmd.OutOrStdout()
	var records []bench.Record
	for _, c := range cases {
		for _, al := range selected {
			fmt.Fprintf(w, "Запущен алгоритм %s; %s (общее кол-во запусков=%d)...\n", al.Name, describeCase(c), runner.Runs)

			rec, err := runner.RunCase(cmd.Context(), c, al)
			if err != nil {
				return err
			}
			records = append(records, rec)

			fmt.Fprintf(w, "  Значение целевой функции: лучшее=%.2f среднее=%.2f стандартное отклонение=%.2f недопустимых=%d | Время: среднее=%.2fms среднее отклонение=%.2fms\n",
				rec.ScoreBest, rec.ScoreMean, rec.ScoreStd, rec.Infeasible,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
			a.log.Debug("bench case done", "algo", rec.Algo, "instance", rec.Instance, "best", rec.ScoreBest)
		}
	}

	if err := bench.WriteCSV(o.out, records); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}
	fmt.Fprintln(w, "Saved:", o.out)
	return nil
}

func describeCase(c bench.Case) string {
	if c.Instance != nil {
		return fmt.Sprintf("экземпляр %s (%d операций)", c.Instance.Name, c.Instance.Required())
	}
	return fmt.Sprintf("%d операций %d станков", c.Ops, c.Machines)
}

// helpers

// parseCases разбирает список экземпляров. Элемент — пара OPSxMACHINES
// для случайного экземпляра, имя встроенного экземпляра или путь к файлу.
func parseCases(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		if c, ok, err := parsePair(p, i, baseInstanceSeed); err != nil {
			return nil, err
		} else if ok {
			cases = append(cases, c)
			continue
		}

		inst, err := catalog.Builtin(p)
		if err != nil {
			if _, statErr := os.Stat(p); statErr != nil {
				return nil, fmt.Errorf("%q: не пара OPSxMACHINES, не встроенный экземпляр (%v) и не файл", p, catalog.Builtins())
			}
			if inst, err = catalog.Load(p); err != nil {
				return nil, err
			}
		}
		cases = append(cases, bench.Case{Instance: inst})
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("список экземпляров пуст")
	}
	return cases, nil
}

// parsePair возвращает ok == false, если p не похоже на пару.
func parsePair(p string, i int, baseInstanceSeed int64) (bench.Case, bool, error) {
	om := strings.Split(p, "x")
	if len(om) != 2 {
		return bench.Case{}, false, nil
	}
	ops, err := atoiStrict(om[0])
	if err != nil {
		return bench.Case{}, false, nil
	}
	machines, err := atoiStrict(om[1])
	if err != nil {
		return bench.Case{}, true, fmt.Errorf("пара %q: ошибка парсинга количества станков: %w", p, err)
	}
	if ops <= 0 || machines <= 0 {
		return bench.Case{}, true, fmt.Errorf("пара %q: количество операций и станков должно быть > 0", p)
	}

	seed := baseInstanceSeed + int64(i)*10_000 + int64(ops)*100 + int64(machines)
	return bench.Case{
		Ops:          ops,
		Machines:     machines,
		InstanceSeed: seed,
	}, true, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
