package models

import "fmt"

// ChecklistField names one construction-checklist attribute on a task.
// The set is closed: the field names are domain data, not structure, so
// they live in one list instead of forty struct fields.
type ChecklistField string

const (
	FieldStoreType                   ChecklistField = "store_type"
	FieldPropertyType                ChecklistField = "property_type"
	FieldComments                    ChecklistField = "comments"
	FieldEarthLevelingStatus         ChecklistField = "earth_leveling_status"
	FieldFootingStoneStatus          ChecklistField = "footing_stone_status"
	FieldColumnErectionStatus        ChecklistField = "column_erection_status"
	FieldRoofingSheetsStatus         ChecklistField = "roofing_sheets_status"
	FieldRoofInsulationStatus        ChecklistField = "roof_insulation_status"
	FieldSidesCladdingStatus         ChecklistField = "sides_cladding_status"
	FieldRoofTrussesStatus           ChecklistField = "roof_trusses_status"
	FieldWallConstructionStatus      ChecklistField = "wall_construction_status"
	FieldFlooringConcreteStatus      ChecklistField = "flooring_concrete_status"
	FieldPlasteringPaintingStatus    ChecklistField = "plastering_painting_status"
	FieldPlumbingStatus              ChecklistField = "plumbing_status"
	FieldParkingAvailabilityStatus   ChecklistField = "parking_availability_status"
	FieldAssociatesRestroomStatus    ChecklistField = "associates_restroom_status"
	FieldZeptonsRestroomStatus       ChecklistField = "zeptons_restroom_status"
	FieldWaterAvailabilityStatus     ChecklistField = "water_availability_status"
	FieldPermanentPowerStatus        ChecklistField = "permanent_power_status"
	FieldParkingWorkStatus           ChecklistField = "parking_work_status"
	FieldDGBedStatus                 ChecklistField = "dg_bed_status"
	FieldStoreShuttersStatus         ChecklistField = "store_shutters_status"
	FieldApproachRoadStatus          ChecklistField = "approach_road_status"
	FieldTemporaryPowerKVAStatus     ChecklistField = "temporary_power_kva_status"
	FieldFlooringTilesLevelIssues    ChecklistField = "flooring_tiles_level_issues"
	FieldRestroomFixturesStatus      ChecklistField = "restroom_fixtures_status"
	FieldDGInstallationStatus        ChecklistField = "dg_installation_status"
	FieldCCTVInstallationStatus      ChecklistField = "cctv_installation_status"
	FieldLightsFansInstallStatus     ChecklistField = "lights_fans_installation_status"
	FieldRacksInstallationStatus     ChecklistField = "racks_installation_status"
	FieldColdRoomInstallationStatus  ChecklistField = "cold_room_installation_status"
	FieldPandaBinInstallationStatus  ChecklistField = "panda_bin_installation_status"
	FieldCratesInstallationStatus    ChecklistField = "crates_installation_status"
	FieldFlykillerInstallationStatus ChecklistField = "flykiller_installation_status"
	FieldDGTestingStatus             ChecklistField = "dg_testing_status"
	FieldCleaningStatus              ChecklistField = "cleaning_status"
)

// ChecklistFields is the closed set of valid checklist field names.
var ChecklistFields = []ChecklistField{
	FieldStoreType,
	FieldPropertyType,
	FieldComments,
	FieldEarthLevelingStatus,
	FieldFootingStoneStatus,
	FieldColumnErectionStatus,
	FieldRoofingSheetsStatus,
	FieldRoofInsulationStatus,
	FieldSidesCladdingStatus,
	FieldRoofTrussesStatus,
	FieldWallConstructionStatus,
	FieldFlooringConcreteStatus,
	FieldPlasteringPaintingStatus,
	FieldPlumbingStatus,
	FieldParkingAvailabilityStatus,
	FieldAssociatesRestroomStatus,
	FieldZeptonsRestroomStatus,
	FieldWaterAvailabilityStatus,
	FieldPermanentPowerStatus,
	FieldParkingWorkStatus,
	FieldDGBedStatus,
	FieldStoreShuttersStatus,
	FieldApproachRoadStatus,
	FieldTemporaryPowerKVAStatus,
	FieldFlooringTilesLevelIssues,
	FieldRestroomFixturesStatus,
	FieldDGInstallationStatus,
	FieldCCTVInstallationStatus,
	FieldLightsFansInstallStatus,
	FieldRacksInstallationStatus,
	FieldColdRoomInstallationStatus,
	FieldPandaBinInstallationStatus,
	FieldCratesInstallationStatus,
	FieldFlykillerInstallationStatus,
	FieldDGTestingStatus,
	FieldCleaningStatus,
}

var checklistFieldSet = func() map[ChecklistField]struct{} {
	set := make(map[ChecklistField]struct{}, len(ChecklistFields))
	for _, f := range ChecklistFields {
		set[f] = struct{}{}
	}
	return set
}()

// KnownChecklistField reports whether name is part of the closed set.
func KnownChecklistField(name ChecklistField) bool {
	_, ok := checklistFieldSet[name]
	return ok
}

// Checklist maps checklist field names to their free-form status values.
// It is stored as a single JSON column on the task row.
type Checklist map[ChecklistField]string

// Validate rejects entries whose field name is outside the closed set.
func (c Checklist) Validate() error {
	for name := range c {
		if !KnownChecklistField(name) {
			return fmt.Errorf("unknown checklist field %q", name)
		}
	}
	return nil
}

// Merge overlays the entries of other onto a copy of c.
func (c Checklist) Merge(other Checklist) Checklist {
	merged := make(Checklist, len(c)+len(other))
	for name, value := range c {
		merged[name] = value
	}
	for name, value := range other {
		merged[name] = value
	}
	return merged
}
