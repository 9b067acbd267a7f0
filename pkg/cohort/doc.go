// Package cohort models subject-level participant data for flow diagrams.
//
// A [Dataset] is a column-oriented table of integer fields, one record per
// observed subject. Each field holds, for one stage of the trial, the column
// index the subject occupies at that stage (0 when the subject is absent or
// excluded there), or an exclusion-reason code.
//
// # Usage
//
//	d := cohort.New()
//	_ = d.AddField("arm", []int{2, 2, 3, 3})
//	_ = d.AddField("reason", []int{0, 1, 0, 2})
//
//	counts, _ := d.CountBy("arm") // map[2:2 3:2]
//
// Datasets can be read from and written to CSV ([ReadCSV], [WriteCSV]), and
// a deterministic reference cohort is available from [Sample].
package cohort
