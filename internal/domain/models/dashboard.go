package models

// KPIs are the scalar production indicators of a set of operational records.
type KPIs struct {
	TotalVolume       float64 `bson:"total_volume" json:"totalVolume"`
	AveragePencapaian float64 `bson:"average_pencapaian" json:"averagePencapaian"`
	TotalRitase       int     `bson:"total_ritase" json:"totalRitase"`
	AverageEU         float64 `bson:"average_eu" json:"averageEU"`
}

// SeriesPoint is one chart bucket of summed volume and target.
type SeriesPoint struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Volume   float64 `json:"volume"`
	TargetM3 float64 `json:"targetM3"`
}

// DailyPoint is one day of the production chart.
type DailyPoint struct {
	Date       string  `json:"date"`
	Volume     float64 `json:"volume"`
	TargetM3   float64 `json:"targetM3"`
	Pencapaian float64 `json:"pencapaian"`
}

// OperationalDashboard is everything the production dashboard renders.
type OperationalDashboard struct {
	KPIs    KPIs                `json:"kpis"`
	Recent  []OperationalRecord `json:"recent"`
	Daily   []DailyPoint        `json:"daily"`
	Monthly []SeriesPoint       `json:"monthly"`
	Yearly  []SeriesPoint       `json:"yearly"`
	Count   int                 `json:"count"`
}

// WorkforceKPIs are the headline employee counts.
type WorkforceKPIs struct {
	Total           int `json:"totalKaryawan"`
	Active          int `json:"karyawanAktif"`
	Inactive        int `json:"karyawanTidakAktif"`
	UniquePositions int `json:"posisiUnik"`
}

// Headcount is the number of employees sharing one attribute value.
type Headcount struct {
	Name  string `json:"name"`
	Count int    `json:"karyawan"`
}

// EmployeeDashboard is everything the HR dashboard renders.
type EmployeeDashboard struct {
	KPIs         WorkforceKPIs `json:"kpis"`
	ByPosition   []Headcount   `json:"byPosition"`
	ByDepartment []Headcount   `json:"byDepartment"`
	Employees    []Employee    `json:"employees"`
}
