package domain

// FirstNoteID is the id handed out when a store holds no notes.
const FirstNoteID = 1000

func SeedNotes() []*Note {
	return []*Note{
		{ID: 1000, Title: "5 life lessons learned from cats", Content: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Cats teach patience and the value of a long nap."},
		{ID: 1001, Title: "What the government doesn't want you to know about cats", Content: "Posuere sollicitudin aliquam ultrices sagittis orci a. Some cats can hear frequencies no dog will ever notice."},
		{ID: 1002, Title: "The most boring article about cats you'll ever read", Content: "Feugiat in fermentum posuere urna nec tincidunt praesent. Cats sleep, then eat, then sleep again."},
		{ID: 1003, Title: "7 things lady gaga has in common with cats", Content: "Ultricies lacus sed turpis tincidunt id aliquet risus feugiat. Both command the stage and refuse to be ignored."},
		{ID: 1004, Title: "The most incredible article about cats you'll ever read", Content: "Quam pellentesque nec nam aliquam sem et tortor consequat. A cat once opened a fridge on its own."},
		{ID: 1005, Title: "10 ways cats can help you live to 100", Content: "Sit amet nulla facilisi morbi tempus iaculis urna id. Purring has been linked to lower blood pressure."},
		{ID: 1006, Title: "9 reasons you can blame the recession on cats", Content: "Faucibus nisl tincidunt eget nullam non nisi est sit amet. Nobody ever audited the cat food budget."},
		{ID: 1007, Title: "10 ways marketers are making you addicted to cats", Content: "Cursus turpis massa tincidunt dui ut ornare lectus sit. Every feed is one more cat video away from lunch."},
		{ID: 1008, Title: "11 ways investing in cats can make you a millionaire", Content: "Aenean euismod elementum nisi quis eleifend quam adipiscing. Start with a scratching post and diversify."},
		{ID: 1009, Title: "Why you should forget everything you learned about cats", Content: "Vitae semper quis lectus nulla at volutpat diam ut. Lady Gaga would agree: cats are unpredictable."},
	}
}
