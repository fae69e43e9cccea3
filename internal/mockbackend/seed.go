// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mockbackend

import "github.com/pdiddy/yoop/pkg/types"

// SeedPassword is the password of every demo account.
const SeedPassword = "yoop-demo"

func seedAccounts() []*account {
	profiles := []types.User{
		{
			Candidate: types.Candidate{
				ID: "seed-01", Login: "sanya_dev", Name: "Alexander", SurName: "Pogodin", FatherName: "Ivanovich",
				Age: 24, Gender: "male", City: "Moscow",
				Bio:       "Frontend developer, loves cats and clean code",
				Skills:    types.Tags{"React", "TypeScript", "Next.js"},
				Interests: types.Tags{"AI", "UX design"},
				Hobbies:   types.Tags{"music", "mountains", "photography"},
			},
			Contact: "@sanya_dev",
		},
		{
			Candidate: types.Candidate{
				ID: "seed-02", Login: "maria_code", Name: "Maria", SurName: "Kuznetsova", FatherName: "Alekseevna",
				Age: 27, Gender: "female", City: "Saint Petersburg",
				Bio:       "Backend developer, loves Go and good architecture",
				Skills:    types.Tags{"Go", "PostgreSQL", "Docker"},
				Interests: types.Tags{"open source", "tea"},
				Hobbies:   types.Tags{"travel", "board games"},
			},
			Contact: "@maria_code",
		},
		{
			Candidate: types.Candidate{
				ID: "seed-03", Login: "ilya_ml", Name: "Ilya", SurName: "Smirnov", FatherName: "Petrovich",
				Age: 29, Gender: "male", City: "Novosibirsk",
				Bio:       "Data scientist experimenting with LLMs and computer vision",
				Skills:    types.Tags{"Python", "TensorFlow", "PyTorch"},
				Interests: types.Tags{"ML", "data viz"},
				Hobbies:   types.Tags{"running", "photography"},
			},
			Contact: "@ilya_ml",
		},
		{
			Candidate: types.Candidate{
				ID: "seed-04", Login: "alisa", Name: "Alisa", SurName: "Orlova",
				Age: 22, Gender: "female", City: "Kazan",
				Bio:       "Frontend developer, loves travel and coffee",
				Skills:    types.Tags{"Vue", "React", "CSS"},
				Interests: types.Tags{"design systems"},
				Hobbies:   types.Tags{"coffee", "travel"},
			},
			Contact: "@alisa_o",
		},
		{
			Candidate: types.Candidate{
				ID: "seed-05", Login: "boris", Name: "Boris", SurName: "Volkov",
				Age: 34, Gender: "male", City: "Yekaterinburg",
				Bio:       "DevOps engineer keeping clusters boring",
				Skills:    types.Tags{"Kubernetes", "Terraform", "Go"},
				Interests: types.Tags{"SRE"},
				Hobbies:   types.Tags{"cycling"},
			},
			Contact: "@boris_ops",
		},
		{
			Candidate: types.Candidate{
				ID: "seed-06", Login: "vika", Name: "Viktoria", SurName: "Lebedeva",
				Age: 26, Gender: "female", City: "Moscow",
				Bio:       "Product designer who prototypes in code",
				Skills:    types.Tags{"Figma", "React"},
				Interests: types.Tags{"UX research"},
				Hobbies:   types.Tags{"painting", "yoga"},
			},
			Contact: "@vika_design",
		},
	}

	out := make([]*account, len(profiles))
	for i, u := range profiles {
		out[i] = &account{user: u, password: SeedPassword}
	}
	return out
}
