package entity

// Recommended taxonomy for the catalog dropdowns. Advisory only: the data
// layer does not enforce membership, callers may store values outside these
// lists.

var Subjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"English",
	"History",
	"Geography",
	"Computer Science",
	"Economics",
	"Literature",
}

var Levels = []string{
	"O-Level",
	"A-Level",
	"University",
	"General",
}

var Categories = []string{
	"Textbook",
	"Notes",
	"Exam",
	"Video",
	"Reference",
}
