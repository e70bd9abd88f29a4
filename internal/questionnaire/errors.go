package questionnaire

import "errors"

var (
	ErrNotLoaded        = errors.New("questions not loaded")
	ErrAlreadyLoaded    = errors.New("questions already loaded")
	ErrNoQuestions      = errors.New("questionnaire has no questions")
	ErrNotAnswering     = errors.New("questionnaire is not accepting answers")
	ErrSliderQuestion   = errors.New("current question is answered with the slider")
	ErrDiscreteQuestion = errors.New("current question is answered with option buttons")
	ErrUnknownOption    = errors.New("option does not belong to the current question")
	ErrOptionIndex      = errors.New("slider index out of range")
	ErrNotLastQuestion  = errors.New("submit is only available on the last question")
	ErrSubmitInFlight   = errors.New("submission already in progress")
)
