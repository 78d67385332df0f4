// Package domain defines the assessment record collected by the wizard steps.
package domain

type Industry string

const (
	IndustryManufacturing Industry = "manufacturing"
	IndustryHealthcare    Industry = "healthcare"
	IndustryRetail        Industry = "retail"
	IndustryDistribution  Industry = "distribution"
	IndustryServices      Industry = "services"
	IndustryOther         Industry = "other"
)

type Deployment string

const (
	DeploymentCloud     Deployment = "cloud"
	DeploymentDedicated Deployment = "dedicated"
	DeploymentOnPrem    Deployment = "onprem"
)

type DataVolume string

const (
	DataVolumeLow    DataVolume = "low"
	DataVolumeMedium DataVolume = "medium"
	DataVolumeHigh   DataVolume = "high"
)

type Timeline string

const (
	TimelineUrgent   Timeline = "urgent"
	TimelineNormal   Timeline = "normal"
	TimelineFlexible Timeline = "flexible"
)

type TrainingNeed string

const (
	TrainingNone      TrainingNeed = "none"
	TrainingBasic     TrainingNeed = "basic"
	TrainingExtensive TrainingNeed = "extensive"
)

type SupportLevel string

const (
	SupportBasic    SupportLevel = "basic"
	SupportStandard SupportLevel = "standard"
	SupportPremium  SupportLevel = "premium"
)

// ModuleNeeds flags the business modules the prospect wants.
type ModuleNeeds struct {
	CRM           bool `json:"crm"`
	Accounting    bool `json:"accounting"`
	Inventory     bool `json:"inventory"`
	Procurement   bool `json:"procurement"`
	Manufacturing bool `json:"manufacturing"`
	POS           bool `json:"pos"`
	ECommerce     bool `json:"ecommerce"`
	HRM           bool `json:"hrm"`
	Project       bool `json:"project"`
}

// Module keys in display order.
const (
	ModuleCRM           = "crm"
	ModuleAccounting    = "accounting"
	ModuleInventory     = "inventory"
	ModuleProcurement   = "procurement"
	ModuleManufacturing = "manufacturing"
	ModulePOS           = "pos"
	ModuleECommerce     = "ecommerce"
	ModuleHRM           = "hrm"
	ModuleProject       = "project"
)

var moduleNames = []struct {
	key  string
	name string
}{
	{ModuleCRM, "CRM"},
	{ModuleAccounting, "Accounting"},
	{ModuleInventory, "Inventory"},
	{ModuleProcurement, "Procurement"},
	{ModuleManufacturing, "Manufacturing"},
	{ModulePOS, "Point of Sale"},
	{ModuleECommerce, "E-Commerce"},
	{ModuleHRM, "Human Resources"},
	{ModuleProject, "Project Management"},
}

func (m *ModuleNeeds) flag(key string) *bool {
	switch key {
	case ModuleCRM:
		return &m.CRM
	case ModuleAccounting:
		return &m.Accounting
	case ModuleInventory:
		return &m.Inventory
	case ModuleProcurement:
		return &m.Procurement
	case ModuleManufacturing:
		return &m.Manufacturing
	case ModulePOS:
		return &m.POS
	case ModuleECommerce:
		return &m.ECommerce
	case ModuleHRM:
		return &m.HRM
	case ModuleProject:
		return &m.Project
	}
	return nil
}

// Set toggles a module flag by key. Unknown keys are reported as false.
func (m *ModuleNeeds) Set(key string, on bool) bool {
	f := m.flag(key)
	if f == nil {
		return false
	}
	*f = on
	return true
}

// SelectedNames returns the display names of every requested module.
func (m ModuleNeeds) SelectedNames() []string {
	var out []string
	for _, mod := range moduleNames {
		if *m.flag(mod.key) {
			out = append(out, mod.name)
		}
	}
	return out
}

// Assessment holds every wizard answer. Defaults keeps it well-formed before
// the user has visited a step.
type Assessment struct {
	// Step 1: company profile.
	Industry    Industry `json:"industry"`
	CompanySize string   `json:"company_size"`
	UserCount   int      `json:"user_count"`
	Locations   int      `json:"locations"`

	// Step 2: technical preferences.
	Deployment      Deployment `json:"deployment"`
	ServerLocation  string     `json:"server_location"`
	DataVolume      DataVolume `json:"data_volume"`
	HasLegacySystem bool       `json:"has_legacy_system"`

	// Step 3: module needs.
	Modules ModuleNeeds `json:"modules"`

	// Step 4: integration complexity.
	APIIntegrations   int  `json:"api_integrations"`
	CustomReports     int  `json:"custom_reports"`
	NeedsCustomModule bool `json:"needs_custom_module"`

	// Step 5: support expectations.
	SupportLevel SupportLevel `json:"support_level"`
	TrainingNeed TrainingNeed `json:"training_need"`

	// Step 6: go-live timeline.
	Timeline Timeline `json:"timeline"`
}

func Defaults() Assessment {
	return Assessment{
		UserCount:    10,
		Locations:    1,
		DataVolume:   DataVolumeMedium,
		SupportLevel: SupportStandard,
		TrainingNeed: TrainingBasic,
		Timeline:     TimelineNormal,
	}
}
