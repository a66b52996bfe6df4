package llm

// chatRequest тело запроса суммаризации в формате chat-completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse тело ответа chat-completions.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// transcriptionResponse тело ответа транскрибации аудио.
type transcriptionResponse struct {
	Text string `json:"text"`
}
