package models

// OperationalRecord is one day's production log for the site. Date is the
// unique key; the derived fields are always recomputed from the raw inputs.
type OperationalRecord struct {
	ID   int64  `bson:"id,omitempty" json:"id,omitempty"`
	Date string `bson:"date" json:"date"`

	// Raw inputs.
	Pro      float64 `bson:"pro" json:"pro"`
	Stb      float64 `bson:"stb" json:"stb"`
	Bd       float64 `bson:"bd" json:"bd"`
	Ritase   int     `bson:"ritase" json:"ritase"`
	Volume   float64 `bson:"volume" json:"volume"`
	TargetM3 float64 `bson:"targetM3" json:"targetM3"`

	// Derived.
	Wt         float64 `bson:"wt" json:"wt"`
	Pa         float64 `bson:"pa" json:"pa"`
	Ua         float64 `bson:"ua" json:"ua"`
	Ma         float64 `bson:"ma" json:"ma"`
	Eu         float64 `bson:"eu" json:"eu"`
	AverageM3  float64 `bson:"averageM3" json:"averageM3"`
	Pencapaian float64 `bson:"pencapaian" json:"pencapaian"`
}

// OperationalColumns lists the header of operational import files in template order.
var OperationalColumns = []string{"date", "pro", "stb", "bd", "ritase", "volume", "targetM3"}

// OperationalExportColumns lists every operational column written to backups.
var OperationalExportColumns = []string{
	"id", "date", "pro", "stb", "bd", "wt", "pa", "ua", "ma", "eu",
	"ritase", "volume", "averageM3", "targetM3", "pencapaian",
}

// Values returns the record laid out as OperationalExportColumns.
func (r OperationalRecord) Values() []interface{} {
	return []interface{}{
		r.ID, r.Date, r.Pro, r.Stb, r.Bd, r.Wt, r.Pa, r.Ua, r.Ma, r.Eu,
		r.Ritase, r.Volume, r.AverageM3, r.TargetM3, r.Pencapaian,
	}
}
