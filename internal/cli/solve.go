package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flexPlan/internal/bench"
	"flexPlan/internal/catalog"
	"flexPlan/internal/fpp"
	"flexPlan/internal/opt"
)

type solveOptions struct {
	instance   string
	builtin    string
	algo       string
	hms        int
	iterations int
	seed       int64
	history    string
	dump       string
	asJSON     bool
}

// solveOutput — ответ solve --json.
type solveOutput struct {
	Algo                 string        `json:"algo"`
	Instance             string        `json:"instance"`
	Seed                 int64         `json:"seed"`
	Score                float64       `json:"score"`
	Breakdown            fpp.Breakdown `json:"breakdown"`
	Evaluations          int           `json:"evaluations"`
	Iterations           int           `json:"iterations"`
	ConvergenceIteration int           `json:"convergenceIteration"`
	TimeMs               float64       `json:"timeMs"`
	Sequence             fpp.Sequence  `json:"sequence"`
}

func newSolveCmd(a *app) *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Один запуск поиска на экземпляре",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.instance, "instance", "", "файл экземпляра (.json, .yaml, .toml)")
	f.StringVar(&o.builtin, "builtin", "example1", "встроенный экземпляр, если --instance не задан")
	f.StringVar(&o.algo, "algo", "hs", "алгоритм: hs | ga | sa | ts | aco | pso")
	f.IntVar(&o.hms, "hms", 0, "размер гармонической памяти (0 — из конфигурации)")
	f.IntVar(&o.iterations, "iterations", 0, "количество импровизаций (0 — из конфигурации)")
	f.Int64Var(&o.seed, "seed", 1000, "сид генератора случайных чисел")
	f.StringVar(&o.history, "history", "", "путь к CSV с кривой сходимости")
	f.StringVar(&o.dump, "dump-instance", "", "сохранить экземпляр в файл (.json, .yaml, .toml) перед запуском")
	f.BoolVar(&o.asJSON, "json", false, "вывести результат в JSON")
	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, o *solveOptions) error {
	inst, err := loadInstance(o.instance, o.builtin)
	if err != nil {
		return err
	}
	if o.dump != "" {
		if err := catalog.Save(o.dump, inst); err != nil {
			return fmt.Errorf("ошибка при сохранении экземпляра: %w", err)
		}
		a.log.Info("instance saved", "path", o.dump)
	}

	if o.hms != 0 {
		a.cfg.HS.MemorySize = o.hms
	}
	if o.iterations != 0 {
		a.cfg.HS.Iterations = o.iterations
	}
	if err := a.cfg.HS.Validate(); err != nil {
		return fmt.Errorf("hs: %w", err)
	}

	algo, ok := a.algorithm(o.algo)
	if !ok {
		return fmt.Errorf("алгоритм %q не предоставлен в программе; доступные: %v", o.algo, keys(a.algorithms()))
	}

	res, err := algo.Factory(o.seed).Solve(cmd.Context(), inst)
	if err != nil {
		return fmt.Errorf("%s: %w", algo.Name, err)
	}

	ev, err := fpp.NewEvaluator(inst)
	if err != nil {
		return err
	}
	bd, err := ev.Evaluate(res.Sequence)
	if err != nil {
		return err
	}

	if o.history != "" {
		if err := bench.WriteHistoryCSV(o.history, res.History); err != nil {
			return fmt.Errorf("ошибка при записи истории: %w", err)
		}
	}

	if o.asJSON {
		return writeJSON(cmd.OutOrStdout(), solveOutput{
			Algo:                 algo.Name,
			Instance:             inst.Name,
			Seed:                 o.seed,
			Score:                res.Score,
			Breakdown:            bd,
			Evaluations:          res.Evaluations,
			Iterations:           res.Iterations,
			ConvergenceIteration: res.ConvergenceIteration,
			TimeMs:               float64(res.Duration.Microseconds()) / 1000.0,
			Sequence:             res.Sequence,
		})
	}
	printSolve(cmd.OutOrStdout(), algo.Name, inst, res, bd)
	if o.history != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Saved:", o.history)
	}
	return nil
}

func printSolve(w io.Writer, algo string, inst *fpp.Instance, res opt.Result, bd fpp.Breakdown) {
	fmt.Fprintf(w, "Алгоритм %s; экземпляр %s (%d операций, %d вариантов)\n",
		algo, inst.Name, inst.Required(), inst.Catalog.Len())
	fmt.Fprintf(w, "  Значение целевой функции: %.2f (допустимо=%t)\n", res.Score, bd.Feasible)
	fmt.Fprintf(w, "  Станки=%.2f инструменты=%.2f | смены: станка=%.2f инструмента=%.2f установа=%.2f\n",
		bd.MachineUsage, bd.ToolUsage, bd.MachineChangeover, bd.ToolChangeover, bd.SetupChangeover)
	fmt.Fprintf(w, "  Вычислений=%d итераций=%d сходимость на итерации %d | время %.2fms\n",
		res.Evaluations, res.Iterations, res.ConvergenceIteration, float64(res.Duration.Microseconds())/1000.0)
	fmt.Fprintf(w, "  Последовательность: %s\n", res.Sequence)
}

func loadInstance(file, builtin string) (*fpp.Instance, error) {
	if file != "" {
		return catalog.Load(file)
	}
	return catalog.Builtin(builtin)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
