package sql

import (
	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type pluginService struct {
	*sqlx.DB
	log zerolog.Logger
}

func NewPluginService(db *sqlx.DB) *pluginService {
	return &pluginService{
		DB:  db,
		log: logger.New("pluginService"),
	}
}

func (db *pluginService) CreateTx(tx *sqlx.Tx, pluginName string) error {
	const query = `INSERT IGNORE INTO plugins (name, enabled) VALUES (?, true)`
	_, err := tx.Exec(query, pluginName)
	return err
}

func (db *pluginService) Disable(pluginName string) error {
	const query = `INSERT INTO plugins 
	(name, enabled) 
	VALUES (?, false)
	ON DUPLICATE KEY UPDATE enabled = false`
	_, err := db.Exec(query, pluginName)
	return err
}

func (db *pluginService) Enable(pluginName string) error {
	const query = `INSERT INTO plugins (name, enabled) VALUES (?, true) ON DUPLICATE KEY UPDATE enabled = true`
	_, err := db.Exec(query, pluginName)
	return err
}

// GetAllDisabled returns the plugins switched off globally. Plugins without
// a row are enabled.
func (db *pluginService) GetAllDisabled() ([]string, error) {
	const query = `SELECT name, enabled FROM plugins WHERE enabled = false`

	var plugins []model.Plugin
	err := db.Select(&plugins, query)
	if err != nil {
		return nil, err
	}

	disabledPlugins := make([]string, 0, len(plugins))
	for _, plugin := range plugins {
		disabledPlugins = append(disabledPlugins, plugin.Name)
	}

	return disabledPlugins, nil
}
