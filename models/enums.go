package models

// Category classifies a project in the showcase.
type Category string

const (
	CategoryWebApp     Category = "WEB_APP"
	CategoryAITool     Category = "AI_TOOL"
	CategoryMobileApp  Category = "MOBILE_APP"
	CategorySaaS       Category = "SAAS"
	CategoryExperiment Category = "EXPERIMENT"
)

// Categories lists every valid Category in display order.
var Categories = []Category{CategoryWebApp, CategoryAITool, CategoryMobileApp, CategorySaaS, CategoryExperiment}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// LeadStatus is a free label; any status may move to any other.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusClosed    LeadStatus = "CLOSED"
)

var LeadStatuses = []LeadStatus{LeadStatusNew, LeadStatusContacted, LeadStatusClosed}

func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// EventType is the kind of engagement recorded by an Analytics row.
type EventType string

const (
	EventView         EventType = "VIEW"
	EventModalOpen    EventType = "MODAL_OPEN"
	EventGithubClick  EventType = "GITHUB_CLICK"
	EventLiveClick    EventType = "LIVE_CLICK"
	EventContactClick EventType = "CONTACT_CLICK"
)

var EventTypes = []EventType{EventView, EventModalOpen, EventGithubClick, EventLiveClick, EventContactClick}

func (e EventType) Valid() bool {
	for _, known := range EventTypes {
		if e == known {
			return true
		}
	}
	return false
}
