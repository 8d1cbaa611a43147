// cmd/config-client/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"turbosap-client/internal/common/config"
	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/common/observability"
	"turbosap-client/internal/common/storage"
	"turbosap-client/internal/draft"
	"turbosap-client/internal/export"
	"turbosap-client/internal/models"
	"turbosap-client/internal/questions"
	"turbosap-client/internal/session"
	"turbosap-client/internal/submit"
)

func main() {
	var (
		module    = flag.String("module", string(models.ModulePaymentMethod), "configuration module: payment-method or payroll-area")
		formPath  = flag.String("form", "", "path to the form JSON file")
		userKey   = flag.String("user", "", "user key for draft scoping (empty: anonymous)")
		exportDir = flag.String("export", "", "directory to write the generated CSV files to (empty: skip export)")
		reset     = flag.Bool("reset", false, "discard any persisted draft and session before running")
		signout   = flag.Bool("signout", false, "clear every module draft for the user, then exit")
		checkDocs = flag.Bool("check-questions", false, "validate the question documents, then exit")
	)
	flag.Parse()

	zapLog := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				log.Warn("metrics endpoint stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	if *checkDocs {
		if err := checkQuestionDocuments(cfg); err != nil {
			zapLog.Fatal("question document check failed", zap.Error(err))
		}
		fmt.Println("Question documents are valid.")
		return
	}

	backend, closeBackend, err := newBackend(cfg)
	if err != nil {
		zapLog.Fatal("storage init failed", zap.Error(err))
	}
	defer closeBackend()

	drafts := draft.NewStore(backend, cfg.Drafts.Version, log)
	ctx := context.Background()

	if *signout {
		drafts.Teardown(ctx, *userKey, models.AllModules...)
		fmt.Println("All drafts cleared.")
		return
	}

	mod := models.Module(*module)
	switch mod {
	case models.ModulePayrollArea, models.ModulePaymentMethod:
	default:
		zapLog.Fatal("unknown module", zap.String("module", *module))
	}

	if *reset {
		drafts.Clear(ctx, mod, *userKey)
	}

	if *formPath == "" {
		zapLog.Fatal("-form is required")
	}
	formData, err := os.ReadFile(*formPath)
	if err != nil {
		zapLog.Fatal("form read failed", zap.Error(err))
	}

	api := session.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.RequestTimeout)*time.Millisecond, log)

	start := time.Now()
	result, err := runModule(ctx, mod, formData, api, drafts, log, *userKey)
	obs.RecordRunDuration(ctx, time.Since(start), string(mod))
	if err != nil {
		obs.RecordRun(ctx, string(mod), "failed")
		reportFailure(log, err)
		os.Exit(1)
	}
	obs.RecordRun(ctx, string(mod), "completed")

	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w.Error())
	}
	fmt.Println(result.Message)

	if *exportDir != "" {
		if err := writeExports(mod, result, *exportDir); err != nil {
			zapLog.Fatal("export failed", zap.Error(err))
		}
		fmt.Printf("CSV files written to %s\n", *exportDir)
	}
}

func checkQuestionDocuments(cfg *config.Config) error {
	reg := questions.NewRegistry(cfg.Questions.CurrentPath, cfg.Questions.OriginalPath)
	if _, err := reg.Original(); err != nil {
		return fmt.Errorf("original document: %w", err)
	}
	doc, err := reg.Current()
	if err != nil {
		return fmt.Errorf("current document: %w", err)
	}
	for _, q := range doc.Questions {
		if q.ShowIf != nil {
			if _, err := reg.Question(q.ShowIf.QuestionID); err != nil {
				return fmt.Errorf("question %s gates on unknown question %s", q.ID, q.ShowIf.QuestionID)
			}
		}
	}
	return nil
}

func newBackend(cfg *config.Config) (storage.KV, func(), error) {
	if cfg.Storage.Driver == "redis" {
		ttl := time.Duration(cfg.Drafts.TTLDays) * 24 * time.Hour
		store, err := storage.NewRedis(cfg.Storage.Redis, ttl)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(context.Background()); err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	store, err := storage.NewFileStore(cfg.Storage.File.Dir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func runModule(ctx context.Context, mod models.Module, formData []byte, api session.API, drafts *draft.Store, log logger.Logger, userKey string) (*submit.Result, error) {
	switch mod {
	case models.ModulePaymentMethod:
		var form submit.PaymentForm
		if err := json.Unmarshal(formData, &form); err != nil {
			return nil, fmt.Errorf("decode payment form: %w", err)
		}
		runner := submit.NewRunner[submit.PaymentForm](api, drafts, log)
		return runner.Run(ctx, submit.NewPaymentPlan(), form, userKey)
	default:
		var form submit.PayrollForm
		if err := json.Unmarshal(formData, &form); err != nil {
			return nil, fmt.Errorf("decode payroll form: %w", err)
		}
		runner := submit.NewRunner[submit.PayrollForm](api, drafts, log)
		return runner.Run(ctx, submit.NewPayrollPlan(form), form, userKey)
	}
}

func reportFailure(log logger.Logger, err error) {
	if verr, ok := err.(*submit.ValidationError); ok {
		for _, f := range verr.Fields {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", f.Severity, f.Field, f.Message)
		}
		return
	}
	msg := errors.NewHandler(log).Handle(err)
	if msg != nil {
		fmt.Fprintln(os.Stderr, msg.Message)
	}
}

func writeExports(mod models.Module, result *submit.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var files map[string]export.Table
	if mod == models.ModulePaymentMethod {
		files = map[string]export.Table{
			"payment_methods.csv": export.PaymentMethodsTable(result.PaymentMethods),
		}
	} else {
		files = map[string]export.Table{
			"payroll_areas.csv":       export.PayrollAreasTable(result.PayrollAreas),
			"calendar_ids.csv":        export.CalendarIDTable(result.PayrollAreas),
			"payroll_area_config.csv": export.PayrollAreaConfigTable(result.PayrollAreas),
		}
	}

	for name, table := range files {
		data, err := table.Format()
		if err != nil {
			return fmt.Errorf("format %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			return err
		}
	}
	return nil
}
