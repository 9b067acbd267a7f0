package cohort

// Field names used by the sample cohort and the built-in diagram template.
const (
	FieldScreened = "screened" // eligibility screening (all subjects present)
	FieldArm      = "arm"      // allocated treatment arm
	FieldSubgroup = "subgroup" // dose subgroup within the arm
	FieldReason   = "reason"   // exclusion-reason code (0 = not excluded)
	FieldFinal    = "final"    // final analysis population
)

// Exclusion-reason codes used by the sample cohort.
const (
	ReasonWithdrew = 1
	ReasonLost     = 2
	ReasonProtocol = 3
	perReason      = 5 // exclusions per reason, per subgroup column
)

// Sample builds the deterministic 100-subject reference cohort.
//
// The cohort splits 50/50 across arms in columns 2 and 3, then 25 per dose
// subgroup in columns 1 through 4. Within each subgroup, 10 subjects reach
// the final analysis and 15 are excluded, 5 per exclusion reason. Repeated
// calls return equal datasets.
func Sample() *Dataset {
	const subjects = 100

	screened := make([]int, subjects)
	arm := make([]int, subjects)
	subgroup := make([]int, subjects)
	reason := make([]int, subjects)
	final := make([]int, subjects)

	for i := 0; i < subjects; i++ {
		screened[i] = 1

		if i < 50 {
			arm[i] = 2
		} else {
			arm[i] = 3
		}

		// Alternate subjects between the arm's two dose subgroups: arm 2
		// feeds columns 1 and 2, arm 3 feeds columns 3 and 4.
		if arm[i] == 2 {
			subgroup[i] = 1 + i%2
		} else {
			subgroup[i] = 3 + i%2
		}

		// Position within the 25-subject subgroup decides the outcome:
		// first 10 are analysed, then 5 per exclusion reason.
		pos := (i % 50) / 2
		if pos < 10 {
			final[i] = subgroup[i]
		} else {
			reason[i] = 1 + (pos-10)/perReason
		}
	}

	d := New()
	mustAdd(d, FieldScreened, screened)
	mustAdd(d, FieldArm, arm)
	mustAdd(d, FieldSubgroup, subgroup)
	mustAdd(d, FieldReason, reason)
	mustAdd(d, FieldFinal, final)
	return d
}

func mustAdd(d *Dataset, name string, values []int) {
	if err := d.AddField(name, values); err != nil {
		panic(err)
	}
}
