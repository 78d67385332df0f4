package domain

import (
	"github.com/smallbiznis/quoteflow/pkg/validation"
)

// Patch carries the answers submitted from one wizard step. Nil fields are
// left untouched.
type Patch struct {
	Industry    *Industry `json:"industry" validate:"omitnil,oneof=manufacturing healthcare retail distribution services other"`
	CompanySize *string   `json:"company_size" validate:"omitnil,oneof=micro small medium large enterprise"`
	UserCount   *int      `json:"user_count" validate:"omitnil,min=1,max=100000"`
	Locations   *int      `json:"locations" validate:"omitnil,min=1,max=1000"`

	Deployment      *Deployment `json:"deployment" validate:"omitnil,oneof=cloud dedicated onprem"`
	ServerLocation  *string     `json:"server_location" validate:"omitnil,oneof=indonesia singapore japan europe united_states customer_site"`
	DataVolume      *DataVolume `json:"data_volume" validate:"omitnil,oneof=low medium high"`
	HasLegacySystem *bool       `json:"has_legacy_system"`

	Modules map[string]bool `json:"modules" validate:"omitempty,dive,keys,oneof=crm accounting inventory procurement manufacturing pos ecommerce hrm project,endkeys"`

	APIIntegrations   *int  `json:"api_integrations" validate:"omitnil,min=0,max=500"`
	CustomReports     *int  `json:"custom_reports" validate:"omitnil,min=0,max=500"`
	NeedsCustomModule *bool `json:"needs_custom_module"`

	SupportLevel *SupportLevel `json:"support_level" validate:"omitnil,oneof=basic standard premium"`
	TrainingNeed *TrainingNeed `json:"training_need" validate:"omitnil,oneof=none basic extensive"`

	Timeline *Timeline `json:"timeline" validate:"omitnil,oneof=urgent normal flexible"`
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return p.Industry == nil && p.CompanySize == nil && p.UserCount == nil && p.Locations == nil &&
		p.Deployment == nil && p.ServerLocation == nil && p.DataVolume == nil && p.HasLegacySystem == nil &&
		len(p.Modules) == 0 &&
		p.APIIntegrations == nil && p.CustomReports == nil && p.NeedsCustomModule == nil &&
		p.SupportLevel == nil && p.TrainingNeed == nil && p.Timeline == nil
}

// Validate checks the patch against its schema.
func (p Patch) Validate() error {
	return validation.Struct(p)
}

// Apply validates p and writes every set field into a. An invalid patch
// leaves a unchanged.
func (a *Assessment) Apply(p Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Industry != nil {
		a.Industry = *p.Industry
	}
	if p.CompanySize != nil {
		a.CompanySize = *p.CompanySize
	}
	if p.UserCount != nil {
		a.UserCount = *p.UserCount
	}
	if p.Locations != nil {
		a.Locations = *p.Locations
	}
	if p.Deployment != nil {
		a.Deployment = *p.Deployment
	}
	if p.ServerLocation != nil {
		a.ServerLocation = *p.ServerLocation
	}
	if p.DataVolume != nil {
		a.DataVolume = *p.DataVolume
	}
	if p.HasLegacySystem != nil {
		a.HasLegacySystem = *p.HasLegacySystem
	}
	for key, on := range p.Modules {
		a.Modules.Set(key, on)
	}
	if p.APIIntegrations != nil {
		a.APIIntegrations = *p.APIIntegrations
	}
	if p.CustomReports != nil {
		a.CustomReports = *p.CustomReports
	}
	if p.NeedsCustomModule != nil {
		a.NeedsCustomModule = *p.NeedsCustomModule
	}
	if p.SupportLevel != nil {
		a.SupportLevel = *p.SupportLevel
	}
	if p.TrainingNeed != nil {
		a.TrainingNeed = *p.TrainingNeed
	}
	if p.Timeline != nil {
		a.Timeline = *p.Timeline
	}
	return nil
}
