// internal/followup/build.go
package followup

import (
	"valuation-leads/internal/common/config"
)

// Clients holds the integrations available to follow-ups. Nil entries
// disable the matching action.
type Clients struct {
	Email    EmailSender
	SMS      SMSSender
	CRM      LeadCreator
	Search   DocumentIndexer
	Workflow ProcessStarter
}

// Build returns the enabled actions in a fixed order.
func Build(cfg config.FollowupsConfig, c Clients) []Action {
	var actions []Action

	if cfg.SalesEmail.Enabled && c.Email != nil {
		actions = append(actions, &SalesEmail{
			Sender:     c.Email,
			Recipients: cfg.SalesEmail.Recipients,
			Limit:      config.GetDuration(cfg.SalesEmail.Timeout),
		})
	}
	if cfg.SMSAlert.Enabled && c.SMS != nil {
		actions = append(actions, &SMSAlert{
			Sender:      c.SMS,
			PhoneNumber: cfg.SMSAlert.PhoneNumber,
			Threshold:   cfg.SMSAlert.Threshold,
			Limit:       config.GetDuration(cfg.SMSAlert.Timeout),
		})
	}
	if cfg.CRMLead.Enabled && c.CRM != nil {
		actions = append(actions, &CRMLead{
			Client: c.CRM,
			Source: cfg.CRMLead.LeadSource,
			Limit:  config.GetDuration(cfg.CRMLead.Timeout),
		})
	}
	if cfg.SearchIndex.Enabled && c.Search != nil {
		actions = append(actions, &SearchIndex{
			Indexer: c.Search,
			Index:   cfg.SearchIndex.Index,
			Limit:   config.GetDuration(cfg.SearchIndex.Timeout),
		})
	}
	if cfg.WorkflowStart.Enabled && c.Workflow != nil {
		actions = append(actions, &WorkflowStart{
			Starter:   c.Workflow,
			ProcessID: cfg.WorkflowStart.ProcessID,
			Limit:     config.GetDuration(cfg.WorkflowStart.Timeout),
		})
	}

	return actions
}
