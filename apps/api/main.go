package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/jukulab/hansei/apps/api/echo"
	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/reflection"
	"github.com/jukulab/hansei/core/student"
	"github.com/jukulab/hansei/core/teacher"
	emailsvc "github.com/jukulab/hansei/services/email"
	googlesvc "github.com/jukulab/hansei/services/google"
	logsvc "github.com/jukulab/hansei/services/logger"
	"github.com/jukulab/hansei/storage/database"
	"github.com/jukulab/hansei/storage/filestore"
)

func main() {
	conf := core.Conf

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up validation
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up Google Workspace access
	workspace := googlesvc.NewWorkspaceClient(conf, logger)

	// set up mail delivery
	var mailSvc core.EmailService
	switch conf.Mail.Provider {
	case "gmail":
		mailSvc = googlesvc.NewGmailService(workspace, logger)
	case "sendgrid":
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	default:
		mailSvc = emailsvc.NewConsoleService(conf)
	}

	// set up draft and history state
	drafts, err := filestore.NewDraftStore(conf.DraftDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up draft store: %v", err), err)
	}
	history, err := filestore.NewHistoryStore(conf.HistoryDir, conf.Reflection.HistoryLimit)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up history store: %v", err), err)
	}

	// set up services
	teacherSvc := teacher.NewService(database.NewTeacherRepository(db))
	studentSvc := student.NewService(database.NewStudentRepository(db))
	renderer := reflection.NewTemplateRenderer(
		filepath.Join(conf.DataDir, "templates", conf.Reflection.TemplateName),
	)
	reflectionSvc := reflection.NewService(
		conf, logger, validate, renderer,
		workspace, drafts, history, studentSvc, mailSvc,
	)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Addr:          conf.Server.Address(),
			TeacherSvc:    teacherSvc,
			StudentSvc:    studentSvc,
			ReflectionSvc: reflectionSvc,
			Workspace:     workspace,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
		},
	)
	server.Start()
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	if err = database.Seed(db, conf.DataDir); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
