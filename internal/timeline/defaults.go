package timeline

const (
	PageAbout        = "about"
	PageCompositions = "compositions"
)

func w(start, end float64) Window {
	return Window{Start: start, End: end}
}

// aboutPanels is timed against the About page hero loop.
// Compact layouts cut the loop shorter, so panels from 2 on start earlier
// and panel 1 overlaps the start of panel 2.
var aboutPanels = []WindowSpec{
	{ID: 1, Kind: Heading, Compact: w(1, 7), Standard: w(1, 7)},
	{ID: 2, Kind: Body, Compact: w(6.5, 27), Standard: w(7.5, 29)},
	{ID: 3, Kind: Body, Compact: w(27, 46), Standard: w(29, 50)},
	{ID: 4, Kind: Quote, Compact: w(46.5, 57), Standard: w(50.5, 62)},
	{ID: 5, Kind: Body, Compact: w(57.5, 74), Standard: w(62.5, 80)},
}

var compositionsPanels = []WindowSpec{
	{ID: 1, Kind: Heading, Compact: w(0.5, 5.5), Standard: w(0.5, 6)},
	{ID: 2, Kind: Body, Compact: w(6, 21), Standard: w(6.5, 24)},
	{ID: 3, Kind: Quote, Compact: w(21.5, 32), Standard: w(24.5, 36)},
	{ID: 4, Kind: Body, Compact: w(32.5, 47), Standard: w(36.5, 52)},
}

// DefaultSchedule returns the built-in timing tables. Each call returns a
// fresh copy.
func DefaultSchedule() *Schedule {
	return &Schedule{
		Version: ScheduleVersion,
		Pages: []PageSchedule{
			{Name: PageAbout, Video: "about-hero.mp4", Panels: append([]WindowSpec(nil), aboutPanels...)},
			{Name: PageCompositions, Video: "compositions-hero.mp4", Panels: append([]WindowSpec(nil), compositionsPanels...)},
		},
	}
}
