package bench

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

func WriteCSV(path string, records []Record) error {
	return writeRows(path, func(w *csv.Writer) error {
		header := []string{
			"algo", "instance", "ops", "variants", "runs",
			"time_best_ms", "time_mean_ms", "time_std_ms",
			"score_best", "score_worst", "score_median", "score_mean", "score_std",
			"infeasible", "convergence_mean", "convergence_std",
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for _, r := range records {
			row := []string{
				r.Algo,
				r.Instance,
				itoa(r.Ops),
				itoa(r.Variants),
				itoa(r.Runs),

				ftoa(r.TimeBestMs),
				ftoa(r.TimeMeanMs),
				ftoa(r.TimeStdMs),

				ftoa(r.ScoreBest),
				ftoa(r.ScoreWorst),
				ftoa(r.ScoreMedian),
				ftoa(r.ScoreMean),
				ftoa(r.ScoreStd),

				itoa(r.Infeasible),
				ftoa(r.ConvergenceMean),
				ftoa(r.ConvergenceStd),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteHistoryCSV сохраняет кривую сходимости: iteration (с единицы), best.
func WriteHistoryCSV(path string, history []float64) error {
	return writeRows(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"iteration", "best"}); err != nil {
			return err
		}
		for i, v := range history {
			if err := w.Write([]string{itoa(i + 1), ftoa(v)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRows(path string, fill func(w *csv.Writer) error) error {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
