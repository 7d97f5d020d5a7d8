package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmail(t *testing.T) {
	input := BuildEmail("acm@somaiya.edu", "asha.rao@somaiya.edu", "Received", "plain", "<p>html</p>")

	assert.Equal(t, "acm@somaiya.edu", awssdk.ToString(input.Source))
	assert.Equal(t, []string{"asha.rao@somaiya.edu"}, input.Destination.ToAddresses)
	assert.Equal(t, "Received", awssdk.ToString(input.Message.Subject.Data))
	assert.Equal(t, "plain", awssdk.ToString(input.Message.Body.Text.Data))
	require.NotNil(t, input.Message.Body.Html)
	assert.Equal(t, "<p>html</p>", awssdk.ToString(input.Message.Body.Html.Data))
}

func TestBuildEmail_TextOnly(t *testing.T) {
	input := BuildEmail("a@x.edu", "b@x.edu", "s", "plain", "")
	assert.Nil(t, input.Message.Body.Html)
}

func TestBuildTopicMessage(t *testing.T) {
	input := BuildTopicMessage("arn:aws:sns:ap-south-1:123:apps", "New application", `{"a":1}`,
		map[string]string{"eventType": "application_submitted"})

	assert.Equal(t, "arn:aws:sns:ap-south-1:123:apps", awssdk.ToString(input.TopicArn))
	assert.Equal(t, "New application", awssdk.ToString(input.Subject))
	require.Contains(t, input.MessageAttributes, "eventType")
	assert.Equal(t, "application_submitted", awssdk.ToString(input.MessageAttributes["eventType"].StringValue))
	assert.Equal(t, "String", awssdk.ToString(input.MessageAttributes["eventType"].DataType))

	bare := BuildTopicMessage("arn", "", "m", nil)
	assert.Nil(t, bare.Subject)
	assert.Nil(t, bare.MessageAttributes)
}
