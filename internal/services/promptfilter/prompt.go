package promptfilter

const systemPrompt = `
	Categorize the custom direction an administrator added to a fine art image request as a JSON dict:
	{
		"sexualize_child": (boolean),
		"child": (boolean),
		"nudity": (boolean),
		"sexual": (boolean),
		"violence": (boolean),
		"disturbing": (boolean),
		"requested_text": (boolean),
		"persons": [{"name": (string), "real_person": (boolean)}]
	}

	Criteria:
	- "sexualize_child": True for sexualizing children under the age of 16, including skimpy clothes and mention of being naughty.
	- "child": True if the image would have a child under the age of 16. "Teen" does not imply child.
	- "nudity": True for any nudity, including "uncovered". Classical figure studies count.
	- "sexual": True for adult themes or explicit content.
	- "violence": True only for extreme violence or gore.
	- "disturbing": True only for potentially offensive content.
	- "requested_text": True for text, lettering or logos in the image.
	- "persons": List subjects, flag "real_person" for identifiable figures, excluding generic names and fictional characters.
`
