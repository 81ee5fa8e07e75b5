// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:         cfg.App.Env,   // "dev" o "prod"
//	    Level:       cfg.Log.Level, // "debug", "info", "warn", "error"
//	    ServiceName: "burtonmail",
//	})
//	defer logger.Sync()
//
// En services (con contexto):
//
//	log := logger.From(ctx).With(logger.Op("Dispatcher.Send"))
//	log.Info("relay accepted message", logger.EntryID(entry.ID))
//
// Los handlers HTTP reciben un logger "scoped" con request_id vía middleware,
// así que From(ctx) siempre arrastra el request que originó la notificación.
package logger
